package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/repositories"
)

// Directory resolves chat identities and answers membership questions.
type Directory struct {
	log      *slog.Logger
	chats    repositories.IChatRepository
	messages repositories.IMessageRepository
	now      func() time.Time
}

func NewDirectory(log *slog.Logger, chats repositories.IChatRepository, messages repositories.IMessageRepository) *Directory {
	return &Directory{log: log, chats: chats, messages: messages, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// GetOrCreatePrivateChat returns the unique chat of the unordered pair,
// creating it on first use. The boolean reports a creation.
func (d *Directory) GetOrCreatePrivateChat(sender, receiver string) (domain.PrivateChat, bool, error) {
	sender, receiver = strings.TrimSpace(sender), strings.TrimSpace(receiver)
	if receiver == "" {
		return domain.PrivateChat{}, false, fmt.Errorf("%w: receiver email is required", errors.ErrValidation)
	}
	if sender == "" {
		return domain.PrivateChat{}, false, fmt.Errorf("%w: sender email is required", errors.ErrValidation)
	}

	now := d.now()
	chat, created, err := d.chats.FindOrCreatePrivateChat(domain.PrivateChat{
		ID:            uuid.NewString(),
		SenderEmail:   sender,
		ReceiverEmail: receiver,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return domain.PrivateChat{}, false, fmt.Errorf("open private chat: %w", err)
	}
	return chat, created, nil
}

// CreateGroupChat stores the group with one member row per distinct member
// and a single admin row. The admin is never counted twice.
func (d *Directory) CreateGroupChat(admin, name string, members []string) (domain.GroupChat, []domain.GroupParticipant, error) {
	admin, name = strings.TrimSpace(admin), strings.TrimSpace(name)
	if name == "" {
		return domain.GroupChat{}, nil, fmt.Errorf("%w: group name is required", errors.ErrValidation)
	}
	if admin == "" {
		return domain.GroupChat{}, nil, fmt.Errorf("%w: admin email is required", errors.ErrValidation)
	}
	cleaned := lo.Without(lo.Uniq(lo.Compact(lo.Map(members, func(m string, _ int) string {
		return strings.TrimSpace(m)
	}))), admin)
	if len(cleaned) == 0 {
		return domain.GroupChat{}, nil, fmt.Errorf("%w: group members are required", errors.ErrValidation)
	}

	now := d.now()
	chat := domain.GroupChat{
		ID:         uuid.NewString(),
		GroupName:  name,
		AdminEmail: admin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	participants := lo.Map(cleaned, func(email string, _ int) domain.GroupParticipant {
		return domain.GroupParticipant{ChatID: chat.ID, UserEmail: email, Role: domain.RoleMember, CreatedAt: now}
	})
	participants = append(participants, domain.GroupParticipant{
		ChatID: chat.ID, UserEmail: admin, Role: domain.RoleAdmin, CreatedAt: now,
	})

	if err := d.chats.CreateGroupChat(chat, participants); err != nil {
		return domain.GroupChat{}, nil, fmt.Errorf("create group chat: %w", err)
	}
	d.log.Debug("Group chat created", "chat_id", chat.ID, "members", len(participants))
	return chat, participants, nil
}

// ListPrivateChats returns the private chats of identity, most recent first,
// each with its counterpart and unread count.
func (d *Directory) ListPrivateChats(identity string) ([]domain.PrivateChatSummary, error) {
	chats, err := d.chats.ListPrivateChats(identity)
	if err != nil {
		return nil, fmt.Errorf("list private chats: %w", err)
	}
	ids := lo.Map(chats, func(c domain.PrivateChat, _ int) string { return c.ID })
	unread, err := d.messages.CountUnread(domain.PrivateKind, ids, identity)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return lo.Map(chats, func(c domain.PrivateChat, _ int) domain.PrivateChatSummary {
		return domain.PrivateChatSummary{PrivateChat: c, Counterpart: c.Counterpart(identity), UnreadCount: unread[c.ID]}
	}), nil
}

func (d *Directory) ListGroupChats(identity string) ([]domain.GroupChatSummary, error) {
	chats, err := d.chats.ListGroupChats(identity)
	if err != nil {
		return nil, fmt.Errorf("list group chats: %w", err)
	}
	ids := lo.Map(chats, func(c domain.GroupChat, _ int) string { return c.ID })
	unread, err := d.messages.CountUnread(domain.GroupKind, ids, identity)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return lo.Map(chats, func(c domain.GroupChat, _ int) domain.GroupChatSummary {
		return domain.GroupChatSummary{GroupChat: c, UnreadCount: unread[c.ID]}
	}), nil
}

// PrivateCounterparts lists every distinct identity sharing a private chat with identity.
func (d *Directory) PrivateCounterparts(identity string) ([]string, error) {
	chats, err := d.chats.ListPrivateChats(identity)
	if err != nil {
		return nil, fmt.Errorf("list private chats: %w", err)
	}
	return lo.Uniq(lo.Map(chats, func(c domain.PrivateChat, _ int) string {
		return c.Counterpart(identity)
	})), nil
}
