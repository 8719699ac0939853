package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sureshpilli97/ChatCresr-Server/auth"
	"github.com/sureshpilli97/ChatCresr-Server/contract"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/services"
)

// Handlers serves accounts directly and routes chat operations through the
// engine, so REST callers trigger the same fan-out as websocket ones.
type Handlers struct {
	log          *slog.Logger
	accounts     services.IAccountService
	orchestrator contract.IOrchestrator
}

func NewHandlers(log *slog.Logger, accounts services.IAccountService, orchestrator contract.IOrchestrator) *Handlers {
	return &Handlers{log: log, accounts: accounts, orchestrator: orchestrator}
}

// SendOTP handles POST /lstm/auth/send-otp
func (h *Handlers) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.SendOTPRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	if err := h.accounts.SendOTP(req); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
}

// Register handles POST /lstm/auth/register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	user, err := h.accounts.Register(req)
	if err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully", "userId": user.ID})
}

// Login handles POST /lstm/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	session, err := h.accounts.Login(req)
	if err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "user": session.User, "token": session.Token})
}

// Me handles GET /lstm/auth
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFrom(r.Context())
	user, err := h.accounts.GetUser(identity.Email)
	if err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "User details fetched successfully", "user": user})
}

// Update handles PUT /lstm/auth/update
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFrom(r.Context())
	var req auth.UpdateRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	session, err := h.accounts.UpdateUser(identity.Email, req)
	if err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "User updated successfully", "user": session.User, "token": session.Token})
}

// PrivateChats handles GET /lstm/chats/private
func (h *Handlers) PrivateChats(w http.ResponseWriter, r *http.Request) {
	res, ok := h.submit(w, r, domain.GetChatParticipantsCommand{})
	if !ok {
		return
	}
	list := res.(event.PrivateChatList)
	message := "Private chats fetched successfully"
	if len(list.PrivateChats) == 0 {
		message = "No private chats found"
		list.PrivateChats = []event.PrivateChatEntry{}
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": message, "privateChats": list.PrivateChats})
}

// GroupChats handles GET /lstm/chats/group
func (h *Handlers) GroupChats(w http.ResponseWriter, r *http.Request) {
	res, ok := h.submit(w, r, domain.GetGroupChatParticipantsCommand{})
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, res)
}

// PrivateMessages handles GET /lstm/chats/private/{chatId}
func (h *Handlers) PrivateMessages(w http.ResponseWriter, r *http.Request) {
	res, ok := h.submit(w, r, domain.GetPrivateChatMessagesCommand{ChatID: mux.Vars(r)["chatId"]})
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "Private messages fetched successfully", "messages": res})
}

// GroupMessages handles GET /lstm/chats/group/{chatId}
func (h *Handlers) GroupMessages(w http.ResponseWriter, r *http.Request) {
	res, ok := h.submit(w, r, domain.GetGroupChatMessagesCommand{ChatID: mux.Vars(r)["chatId"]})
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "Group messages fetched successfully", "messages": res})
}

// CreatePrivateChat handles POST /lstm/messages/private/chat
func (h *Handlers) CreatePrivateChat(w http.ResponseWriter, r *http.Request) {
	var cmd domain.CreatePrivateChatCommand
	if err := DecodeJSONBody(w, r, &cmd); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	if res, ok := h.submit(w, r, cmd); ok {
		RespondWithJSON(w, http.StatusOK, res)
	}
}

// SendPrivateMessage handles POST /lstm/messages/private/message
func (h *Handlers) SendPrivateMessage(w http.ResponseWriter, r *http.Request) {
	var cmd domain.SendPrivateMessageCommand
	if err := DecodeJSONBody(w, r, &cmd); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	res, ok := h.submit(w, r, cmd)
	if !ok {
		return
	}
	message := res.(domain.Message)
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "Private message sent", "messageChat": message})
}

// CreateGroupChat handles POST /lstm/messages/group/chat
func (h *Handlers) CreateGroupChat(w http.ResponseWriter, r *http.Request) {
	var cmd domain.CreateGroupChatCommand
	if err := DecodeJSONBody(w, r, &cmd); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	if res, ok := h.submit(w, r, cmd); ok {
		RespondWithJSON(w, http.StatusCreated, res)
	}
}

// SendGroupMessage handles POST /lstm/messages/group/message
func (h *Handlers) SendGroupMessage(w http.ResponseWriter, r *http.Request) {
	var cmd domain.SendGroupMessageCommand
	if err := DecodeJSONBody(w, r, &cmd); err != nil {
		RespondWithErr(w, h.log, err)
		return
	}
	res, ok := h.submit(w, r, cmd)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{"message": "Group message sent", "messageChat": res})
}

// submit runs cmd as the authenticated caller and answers the error itself.
func (h *Handlers) submit(w http.ResponseWriter, r *http.Request, cmd domain.Command) (any, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		RespondWithErr(w, h.log, errors.ErrUnauthorized)
		return nil, false
	}
	res, err := h.orchestrator.Submit(r.Context(), identity.Email, nil, cmd)
	if err != nil {
		RespondWithErr(w, h.log, err)
		return nil, false
	}
	return res, true
}
