package runtime

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sureshpilli97/ChatCresr-Server/contract"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/repositories"
	"github.com/sureshpilli97/ChatCresr-Server/services"
)

const (
	msgPrivateChatCreated = "Private chat created successfully"
	msgGroupChats         = "Group chats fetched successfully"
	msgNoGroupChats       = "No group chats found"
)

// Processor applies one command: validation and persistence through the
// directory and the ledger, then fan-out through the router.
// It is not safe for concurrent use, the engine serializes every call.
type Processor struct {
	log       *slog.Logger
	users     repositories.IUserRepository
	directory *services.Directory
	ledger    *services.Ledger
	registry  contract.IRegistry
	router    *Router
	now       func() time.Time
}

func NewProcessor(log *slog.Logger, users repositories.IUserRepository, directory *services.Directory,
	ledger *services.Ledger, registry contract.IRegistry, router *Router) *Processor {
	return &Processor{
		log:       log,
		users:     users,
		directory: directory,
		ledger:    ledger,
		registry:  registry,
		router:    router,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle runs cmd on behalf of identity. conn is the requesting connection,
// nil for callers without a realtime session. The returned value is the
// payload answered to the requester.
func (p *Processor) Handle(ctx context.Context, identity string, conn contract.Connection, cmd domain.Command) (any, error) {
	switch c := cmd.(type) {
	case domain.SetOnlineCommand:
		return p.setOnline(ctx, identity, conn, c)
	case domain.DisconnectCommand:
		return nil, p.disconnect(ctx, conn)
	case domain.CreatePrivateChatCommand:
		return p.createPrivateChat(ctx, identity, c)
	case domain.SendPrivateMessageCommand:
		return p.sendPrivateMessage(ctx, identity, c)
	case domain.CreateGroupChatCommand:
		return p.createGroupChat(ctx, identity, c)
	case domain.SendGroupMessageCommand:
		return p.sendGroupMessage(ctx, identity, c)
	case domain.GetChatParticipantsCommand:
		return p.chatParticipants(ctx, identity, conn, c)
	case domain.GetGroupChatParticipantsCommand:
		return p.groupChatParticipants(ctx, identity, conn, c)
	case domain.GetPrivateChatMessagesCommand:
		return p.privateChatMessages(ctx, identity, conn, c)
	case domain.GetGroupChatMessagesCommand:
		return p.groupChatMessages(ctx, identity, conn, c)
	default:
		return nil, fmt.Errorf("%w: unknown command %q", errors.ErrValidation, cmd.Name())
	}
}

func (p *Processor) setOnline(ctx context.Context, identity string, conn contract.Connection, c domain.SetOnlineCommand) (any, error) {
	email, err := bindActor(identity, c.Email)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, fmt.Errorf("%w: identity is required", errors.ErrValidation)
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: a realtime connection is required", errors.ErrValidation)
	}

	if evicted := p.registry.Set(email, conn); evicted != nil {
		p.log.Info("Connection replaced", "identity", email, "evicted", evicted.ID(), "connection", conn.ID())
	}
	// Routable from here on, presence is best effort
	if err = p.users.SetPresence(email, true, p.now()); err != nil && !goerrors.Is(err, errors.ErrNotFound) {
		p.log.Error("Failed to persist online presence", "identity", email, "error", err)
	}

	status := event.UserStatus{Email: email, IsOnline: true}
	delivered := p.router.Broadcast(ctx, event.New(event.UserStatusUpdate, status))
	p.log.Debug("User online", "identity", email, "notified", delivered)
	return status, nil
}

// disconnect is a no-op for a connection that was never registered or was evicted.
func (p *Processor) disconnect(ctx context.Context, conn contract.Connection) error {
	if conn == nil {
		return nil
	}
	identity, ok := p.registry.Remove(conn)
	if !ok {
		p.log.Debug("Stale connection closed", "connection", conn.ID())
		return nil
	}
	if err := p.users.SetPresence(identity, false, p.now()); err != nil && !goerrors.Is(err, errors.ErrNotFound) {
		p.log.Error("Failed to persist offline presence", "identity", identity, "error", err)
	}

	counterparts, err := p.directory.PrivateCounterparts(identity)
	if err != nil {
		return err
	}
	online := lo.Filter(counterparts, func(email string, _ int) bool { return p.registry.IsOnline(email) })
	delivered := p.router.DeliverAll(ctx, online, event.New(event.UserStatusUpdate, event.UserStatus{Email: identity, IsOnline: false}))
	p.log.Debug("User offline", "identity", identity, "notified", delivered)
	return nil
}

func (p *Processor) createPrivateChat(ctx context.Context, identity string, c domain.CreatePrivateChatCommand) (any, error) {
	sender, err := bindActor(identity, c.SenderEmail)
	if err != nil {
		return nil, err
	}
	chat, created, err := p.directory.GetOrCreatePrivateChat(sender, c.ReceiverEmail)
	if err != nil {
		return nil, err
	}
	receiver := chat.Counterpart(sender)

	view := func(counterpart string) event.PrivateChatCreated {
		return event.PrivateChatCreated{
			Message:       msgPrivateChatCreated,
			ID:            chat.ID,
			ReceiverEmail: counterpart,
			UpdatedAt:     chat.UpdatedAt,
			IsOnline:      p.registry.IsOnline(counterpart),
			Type:          string(domain.PrivateKind),
		}
	}
	p.router.Deliver(ctx, sender, event.New(event.NewChatCreated, view(receiver)))
	if receiver != sender {
		p.router.Deliver(ctx, receiver, event.New(event.NewChatCreated, view(sender)))
	}
	p.log.Debug("Private chat opened", "chat_id", chat.ID, "created", created)
	return view(receiver), nil
}

func (p *Processor) sendPrivateMessage(ctx context.Context, identity string, c domain.SendPrivateMessageCommand) (any, error) {
	sender, err := bindActor(identity, c.SenderEmail)
	if err != nil {
		return nil, err
	}
	message, counterpart, err := p.ledger.AppendPrivateMessage(services.Draft{
		ChatID:      c.ChatID,
		SenderEmail: sender,
		MessageText: c.MessageText,
		MessageType: c.MessageType,
		MediaURL:    c.MediaURL,
	})
	if err != nil {
		return nil, err
	}

	evt := event.New(event.ReceivePrivateMessage, message)
	p.router.Deliver(ctx, counterpart, evt)
	if counterpart != sender {
		p.router.Deliver(ctx, sender, evt)
	}
	return message, nil
}

func (p *Processor) createGroupChat(ctx context.Context, identity string, c domain.CreateGroupChatCommand) (any, error) {
	admin, err := bindActor(identity, c.AdminEmail)
	if err != nil {
		return nil, err
	}
	chat, participants, err := p.directory.CreateGroupChat(admin, c.GroupName, c.Users)
	if err != nil {
		return nil, err
	}

	created := event.GroupCreated{
		Message:   fmt.Sprintf("Group '%s' created successfully", chat.GroupName),
		ID:        chat.ID,
		GroupName: chat.GroupName,
		Type:      string(domain.GroupKind),
		UpdatedAt: chat.UpdatedAt,
	}
	emails := lo.Map(participants, func(gp domain.GroupParticipant, _ int) string { return gp.UserEmail })
	delivered := p.router.DeliverAll(ctx, emails, event.New(event.GroupChatCreated, created))
	p.log.Debug("Group chat announced", "chat_id", chat.ID, "notified", delivered)
	return created, nil
}

func (p *Processor) sendGroupMessage(ctx context.Context, identity string, c domain.SendGroupMessageCommand) (any, error) {
	sender, err := bindActor(identity, c.SenderEmail)
	if err != nil {
		return nil, err
	}
	message, participants, err := p.ledger.AppendGroupMessage(services.Draft{
		ChatID:      c.ChatID,
		SenderEmail: sender,
		MessageText: c.MessageText,
		MessageType: c.MessageType,
		MediaURL:    c.MediaURL,
	})
	if err != nil {
		return nil, err
	}
	p.router.DeliverAll(ctx, participants, event.New(event.ReceiveGroupMessage, message))
	return message, nil
}

// chatParticipants renders presence at response time. The receiver of each
// entry is the counterpart of the viewer, whoever opened the chat.
func (p *Processor) chatParticipants(ctx context.Context, identity string, conn contract.Connection, c domain.GetChatParticipantsCommand) (any, error) {
	email, err := bindActor(identity, c.UserEmail)
	if err != nil {
		return nil, err
	}
	summaries, err := p.directory.ListPrivateChats(email)
	if err != nil {
		return nil, err
	}
	list := event.PrivateChatList{
		PrivateChats: lo.Map(summaries, func(s domain.PrivateChatSummary, _ int) event.PrivateChatEntry {
			return event.PrivateChatEntry{
				ID:            s.ID,
				SenderEmail:   s.SenderEmail,
				ReceiverEmail: s.Counterpart,
				CreatedAt:     s.CreatedAt,
				UpdatedAt:     s.UpdatedAt,
				UnreadCount:   s.UnreadCount,
				IsOnline:      p.registry.IsOnline(s.Counterpart),
			}
		}),
		Type: string(domain.PrivateKind),
	}
	p.router.Reply(ctx, conn, event.New(event.ChatParticipants, list))
	return list, nil
}

func (p *Processor) groupChatParticipants(ctx context.Context, identity string, conn contract.Connection, c domain.GetGroupChatParticipantsCommand) (any, error) {
	email, err := bindActor(identity, c.UserEmail)
	if err != nil {
		return nil, err
	}
	summaries, err := p.directory.ListGroupChats(email)
	if err != nil {
		return nil, err
	}
	list := event.GroupChatList{Message: msgGroupChats, GroupChats: summaries, Type: string(domain.GroupKind)}
	if len(summaries) == 0 {
		list.Message = msgNoGroupChats
		list.GroupChats = []domain.GroupChatSummary{}
	}
	p.router.Reply(ctx, conn, event.New(event.GroupChatParticipants, list))
	return list, nil
}

func (p *Processor) privateChatMessages(ctx context.Context, identity string, conn contract.Connection, c domain.GetPrivateChatMessagesCommand) (any, error) {
	viewer, err := bindActor(identity, c.Email)
	if err != nil {
		return nil, err
	}
	messages, err := p.ledger.FetchAndMarkRead(c.ChatID, viewer)
	if err != nil {
		return nil, err
	}
	p.router.Reply(ctx, conn, event.New(event.PrivateChatMessages, messages))
	return messages, nil
}

func (p *Processor) groupChatMessages(ctx context.Context, identity string, conn contract.Connection, c domain.GetGroupChatMessagesCommand) (any, error) {
	viewer, err := bindActor(identity, c.Email)
	if err != nil {
		return nil, err
	}
	messages, err := p.ledger.FetchGroupMessages(c.ChatID, viewer)
	if err != nil {
		return nil, err
	}
	p.router.Reply(ctx, conn, event.New(event.GroupMessages, messages))
	return messages, nil
}

// bindActor defaults an actor field to the authenticated identity and
// refuses to act on behalf of someone else. An empty identity trusts the field.
func bindActor(identity, field string) (string, error) {
	field = strings.TrimSpace(field)
	if identity == "" {
		return field, nil
	}
	if field == "" {
		return identity, nil
	}
	if field != identity {
		return "", fmt.Errorf("%w: cannot act as %s", errors.ErrForbidden, field)
	}
	return field, nil
}
