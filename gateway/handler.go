package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/sureshpilli97/ChatCresr-Server/auth"
	"github.com/sureshpilli97/ChatCresr-Server/contract"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

// disconnectTimeout bounds the presence cleanup once a socket is gone.
const disconnectTimeout = 5 * time.Second

type Options struct {
	BufferSize     int
	MaxMessageSize int64
	AllowedOrigins []string
}

// Handler upgrades authenticated requests and turns frames into commands.
type Handler struct {
	log          *slog.Logger
	tokens       *auth.TokenManager
	orchestrator contract.IOrchestrator
	upgrader     websocket.Upgrader
	options      Options
}

func NewHandler(log *slog.Logger, tokens *auth.TokenManager, orchestrator contract.IOrchestrator, options Options) *Handler {
	h := &Handler{log: log, tokens: tokens, orchestrator: orchestrator, options: options}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.tokens.ValidateToken(auth.TokenFromRequest(r))
	if err != nil {
		h.log.Debug("Websocket authentication refused", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the request
		h.log.Debug("Websocket upgrade failed", "error", err)
		return
	}
	client := newClient(h.log, conn, identity.Email, h.options.BufferSize)
	client.log.Info("Websocket connected", "remote", r.RemoteAddr)

	go client.writePump()
	client.readPump(h.options.MaxMessageSize, func(f frame) bool {
		return h.dispatch(r.Context(), client, f)
	})

	_ = client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if _, err = h.orchestrator.Submit(ctx, client.identity, client, domain.DisconnectCommand{}); err != nil {
		client.log.Warn("Disconnect not processed", "error", err)
	}
	client.log.Info("Websocket disconnected")
}

// dispatch submits one frame and reports whether the session goes on.
func (h *Handler) dispatch(ctx context.Context, client *Client, f frame) bool {
	if f.Event == domain.CmdDisconnect {
		return false
	}
	cmd, err := decodeCommand(f)
	if err == nil {
		client.log.Debug("Frame received", "event", f.Event)
		_, err = h.orchestrator.Submit(ctx, client.identity, client, cmd)
	}
	if err != nil {
		if errors.Kind(err) == "internal" {
			client.log.Error("Command failed", "event", f.Event, "error", err)
		}
		client.reply(event.New(event.Error, event.Failure{Error: errors.Public(err), Kind: errors.Kind(err)}))
	}
	return true
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.options.AllowedOrigins) == 0 || lo.Contains(h.options.AllowedOrigins, "*") {
		return true
	}
	return lo.Contains(h.options.AllowedOrigins, origin)
}

// decodeCommand maps an inbound frame to its command.
// Missing data decodes to the zero command, the engine applies defaults.
func decodeCommand(f frame) (domain.Command, error) {
	switch f.Event {
	case domain.CmdSetOnline:
		email, err := decodeIdentity(f.Data)
		if err != nil {
			return nil, err
		}
		return domain.SetOnlineCommand{Email: email}, nil
	case domain.CmdCreatePrivateChat:
		return decodeInto[domain.CreatePrivateChatCommand](f)
	case domain.CmdSendPrivateMessage:
		return decodeInto[domain.SendPrivateMessageCommand](f)
	case domain.CmdCreateGroupChat:
		return decodeInto[domain.CreateGroupChatCommand](f)
	case domain.CmdSendGroupMessage:
		return decodeInto[domain.SendGroupMessageCommand](f)
	case domain.CmdGetChatParticipants:
		return decodeInto[domain.GetChatParticipantsCommand](f)
	case domain.CmdGetGroupChatParticipants:
		return decodeInto[domain.GetGroupChatParticipantsCommand](f)
	case domain.CmdGetPrivateChatMessages:
		return decodeInto[domain.GetPrivateChatMessagesCommand](f)
	case domain.CmdGetGroupChatMessages:
		return decodeInto[domain.GetGroupChatMessagesCommand](f)
	default:
		return nil, fmt.Errorf("%w: unknown event %q", errors.ErrValidation, f.Event)
	}
}

func decodeInto[T domain.Command](f frame) (domain.Command, error) {
	var cmd T
	if isEmpty(f.Data) {
		return cmd, nil
	}
	if err := json.Unmarshal(f.Data, &cmd); err != nil {
		return nil, fmt.Errorf("%w: invalid %s payload: %v", errors.ErrValidation, f.Event, err)
	}
	return cmd, nil
}

// decodeIdentity accepts a bare string or an {"email"} object.
func decodeIdentity(data json.RawMessage) (string, error) {
	if isEmpty(data) {
		return "", nil
	}
	var email string
	if err := json.Unmarshal(data, &email); err == nil {
		return email, nil
	}
	var cmd domain.SetOnlineCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return "", fmt.Errorf("%w: invalid setOnline payload: %v", errors.ErrValidation, err)
	}
	return cmd.Email, nil
}

func isEmpty(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
