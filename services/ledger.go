package services

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/repositories"
)

// TextFilter rewrites a message body before it is stored.
type TextFilter interface {
	Mask(text string) (string, int)
}

// Ledger appends messages and applies the read transitions.
type Ledger struct {
	log            *slog.Logger
	users          repositories.IUserRepository
	chats          repositories.IChatRepository
	messages       repositories.IMessageRepository
	filter         TextFilter
	detectLanguage func(string) string
	now            func() time.Time
}

type LedgerOption func(*Ledger)

// WithTextFilter masks banned words in every appended body.
func WithTextFilter(filter TextFilter) LedgerOption {
	return func(l *Ledger) { l.filter = filter }
}

// WithLanguageDetector tags every appended text with its language.
func WithLanguageDetector(detect func(string) string) LedgerOption {
	return func(l *Ledger) { l.detectLanguage = detect }
}

func NewLedger(log *slog.Logger, users repositories.IUserRepository, chats repositories.IChatRepository,
	messages repositories.IMessageRepository, opts ...LedgerOption) *Ledger {
	l := &Ledger{log: log, users: users, chats: chats, messages: messages, now: utcNow}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Draft is a message submitted by a sender, before validation.
type Draft struct {
	ChatID      string
	SenderEmail string
	MessageText string
	MessageType domain.MessageType
	MediaURL    string
}

// AppendPrivateMessage stores a private message and returns it with the
// counterpart of the sender.
func (l *Ledger) AppendPrivateMessage(draft Draft) (domain.Message, string, error) {
	if err := validateDraft(&draft); err != nil {
		return domain.Message{}, "", err
	}
	chat, err := l.chats.GetPrivateChat(draft.ChatID)
	if err != nil {
		return domain.Message{}, "", err
	}
	if !chat.Has(draft.SenderEmail) {
		return domain.Message{}, "", fmt.Errorf("%w: %s is not a participant of chat %s", errors.ErrForbidden, draft.SenderEmail, chat.ID)
	}

	message, err := l.messages.AppendMessage(domain.PrivateKind, l.newMessage(draft))
	if err != nil {
		return domain.Message{}, "", fmt.Errorf("append private message: %w", err)
	}
	return message, chat.Counterpart(draft.SenderEmail), nil
}

// AppendGroupMessage stores a group message and returns it rendered with the
// sender name, along with every participant email.
func (l *Ledger) AppendGroupMessage(draft Draft) (domain.GroupMessage, []string, error) {
	if err := validateDraft(&draft); err != nil {
		return domain.GroupMessage{}, nil, err
	}
	if _, err := l.chats.GetGroupChat(draft.ChatID); err != nil {
		return domain.GroupMessage{}, nil, err
	}
	participants, err := l.participantEmails(draft.ChatID)
	if err != nil {
		return domain.GroupMessage{}, nil, err
	}
	if !lo.Contains(participants, draft.SenderEmail) {
		return domain.GroupMessage{}, nil, fmt.Errorf("%w: %s is not a participant of chat %s", errors.ErrForbidden, draft.SenderEmail, draft.ChatID)
	}
	sender, err := l.users.GetUser(draft.SenderEmail)
	if err != nil {
		return domain.GroupMessage{}, nil, err
	}

	message, err := l.messages.AppendMessage(domain.GroupKind, l.newMessage(draft))
	if err != nil {
		return domain.GroupMessage{}, nil, fmt.Errorf("append group message: %w", err)
	}
	return domain.GroupMessage{Message: message, SenderName: sender.Username}, participants, nil
}

// FetchAndMarkRead returns the private history seen by viewer and flips the
// messages viewer received from sent to read.
func (l *Ledger) FetchAndMarkRead(chatID, viewer string) ([]domain.Message, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, fmt.Errorf("%w: chatId is required", errors.ErrValidation)
	}
	chat, err := l.chats.GetPrivateChat(chatID)
	if err != nil {
		return nil, err
	}
	if !chat.Has(viewer) {
		return nil, fmt.Errorf("%w: %s is not a participant of chat %s", errors.ErrForbidden, viewer, chatID)
	}
	messages, _, err := l.messages.GetMessagesAndMarkRead(chatID, viewer, l.now())
	if err != nil {
		return nil, fmt.Errorf("fetch private messages: %w", err)
	}
	return emptyIfNil(messages), nil
}

// FetchGroupMessages returns the group history with sender names.
// Group messages keep their status, reading a group marks nothing.
func (l *Ledger) FetchGroupMessages(chatID, viewer string) ([]domain.GroupMessage, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, fmt.Errorf("%w: chatId is required", errors.ErrValidation)
	}
	if _, err := l.chats.GetGroupChat(chatID); err != nil {
		return nil, err
	}
	participants, err := l.participantEmails(chatID)
	if err != nil {
		return nil, err
	}
	if viewer != "" && !lo.Contains(participants, viewer) {
		return nil, fmt.Errorf("%w: %s is not a participant of chat %s", errors.ErrForbidden, viewer, chatID)
	}
	messages, err := l.messages.GetMessages(domain.GroupKind, chatID)
	if err != nil {
		return nil, fmt.Errorf("fetch group messages: %w", err)
	}

	names := make(map[string]string)
	res := make([]domain.GroupMessage, 0, len(messages))
	for _, message := range messages {
		name, ok := names[message.SenderEmail]
		if !ok {
			name, err = l.displayName(message.SenderEmail)
			if err != nil {
				return nil, err
			}
			names[message.SenderEmail] = name
		}
		res = append(res, domain.GroupMessage{Message: message, SenderName: name})
	}
	return res, nil
}

// displayName tolerates deleted accounts, they render with an empty name.
func (l *Ledger) displayName(email string) (string, error) {
	user, err := l.users.GetUser(email)
	if goerrors.Is(err, errors.ErrNotFound) {
		l.log.Debug("Sender without account", "email", email)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (l *Ledger) participantEmails(chatID string) ([]string, error) {
	participants, err := l.chats.ListGroupParticipants(chatID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return lo.Map(participants, func(p domain.GroupParticipant, _ int) string { return p.UserEmail }), nil
}

func (l *Ledger) newMessage(draft Draft) domain.Message {
	now := l.now()
	message := domain.Message{
		ChatID:      draft.ChatID,
		SenderEmail: draft.SenderEmail,
		MessageType: draft.MessageType,
		Status:      domain.StatusSent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if draft.MediaURL != "" {
		message.MediaURL = lo.ToPtr(draft.MediaURL)
	}
	if draft.MessageText != "" {
		text := draft.MessageText
		if l.filter != nil {
			var matches int
			if text, matches = l.filter.Mask(text); matches > 0 {
				l.log.Info("Message text masked", "chat_id", draft.ChatID, "sender", draft.SenderEmail, "matches", matches)
			}
		}
		if l.detectLanguage != nil {
			message.Language = l.detectLanguage(text)
		}
		message.MessageText = lo.ToPtr(text)
	}
	return message
}

// validateDraft applies defaults and rejects incomplete drafts.
// Text messages need a body, media messages need a body or a media url.
func validateDraft(draft *Draft) error {
	draft.ChatID = strings.TrimSpace(draft.ChatID)
	if draft.ChatID == "" {
		return fmt.Errorf("%w: chatId is required", errors.ErrValidation)
	}
	if strings.TrimSpace(draft.SenderEmail) == "" {
		return fmt.Errorf("%w: sender email is required", errors.ErrValidation)
	}
	if draft.MessageType == "" {
		draft.MessageType = domain.TextMessage
	}
	if !draft.MessageType.Valid() {
		return fmt.Errorf("%w: unknown message type %q", errors.ErrValidation, draft.MessageType)
	}
	hasText := strings.TrimSpace(draft.MessageText) != ""
	if draft.MessageType == domain.TextMessage && !hasText {
		return fmt.Errorf("%w: messageText is required", errors.ErrValidation)
	}
	if !hasText && strings.TrimSpace(draft.MediaURL) == "" {
		return fmt.Errorf("%w: messageText or mediaUrl is required", errors.ErrValidation)
	}
	return nil
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
