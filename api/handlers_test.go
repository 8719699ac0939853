package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sureshpilli97/ChatCresr-Server/api"
	"github.com/sureshpilli97/ChatCresr-Server/auth"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/mocks"
	"github.com/sureshpilli97/ChatCresr-Server/services"
	"go.uber.org/mock/gomock"
)

type harness struct {
	handler      http.Handler
	accounts     *mocks.MockIAccountService
	orchestrator *mocks.MockIOrchestrator
	tokens       *auth.TokenManager
}

func newHarness(t *testing.T) harness {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAccountService(ctrl)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	tokens := auth.NewTokenManager("secret", time.Hour)
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	handlers := api.NewHandlers(slog.Default(), accounts, orchestrator)
	return harness{
		handler:      api.NewRouter(slog.Default(), handlers, tokens, ws, []string{"http://localhost:3000"}),
		accounts:     accounts,
		orchestrator: orchestrator,
		tokens:       tokens,
	}
}

func (h harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, r)
	return w
}

func (h harness) token(t *testing.T, email string) string {
	t.Helper()
	token, err := h.tokens.GenerateToken(auth.Identity{ID: "id-" + email, Email: email, Username: email})
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	payload := auth.RegisterRequest{ID: "u-1", Username: "ada", Email: "ada@example.com", OTP: "1234"}

	h.accounts.EXPECT().Register(payload).Return(domain.User{ID: "u-1", Email: "ada@example.com"}, nil)

	w := h.do(t, http.MethodPost, "/lstm/auth/register", "", payload)
	req.Equal(http.StatusCreated, w.Code)
	req.Equal(map[string]any{"message": "User registered successfully", "userId": "u-1"}, decode(t, w))
}

func TestLogin_Maps_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Unknown user", errors.ErrNotFound, http.StatusNotFound},
		{"Bad input", fmt.Errorf("%w: email is required", errors.ErrValidation), http.StatusBadRequest},
		{"Storage failure", fmt.Errorf("badger: disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.accounts.EXPECT().Login(gomock.Any()).Return(services.Session{}, tt.err)

			w := h.do(t, http.MethodPost, "/lstm/auth/login", "", auth.LoginRequest{Email: "ada@example.com"})
			require.Equal(t, tt.status, w.Code)
			require.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestLogin_Rejects_Unknown_Fields(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/lstm/auth/login", "", map[string]string{"email": "a@b.c", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtected_Routes_Require_Token(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/lstm/auth", "/lstm/chats/private", "/lstm/chats/group/g-1"} {
		require.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, path, "", nil).Code, path)
		require.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, path, "garbage", nil).Code, path)
	}
}

func TestMe(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	h.accounts.EXPECT().GetUser("ada@example.com").Return(domain.User{ID: "u-1", Email: "ada@example.com"}, nil)

	w := h.do(t, http.MethodGet, "/lstm/auth", h.token(t, "ada@example.com"), nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("User details fetched successfully", decode(t, w)["message"])
}

func TestPrivateChats_Submits_As_Caller(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	// Given the caller has no private chats yet
	h.orchestrator.EXPECT().
		Submit(gomock.Any(), "ada@example.com", nil, domain.GetChatParticipantsCommand{}).
		Return(event.PrivateChatList{Type: string(domain.PrivateKind)}, nil)

	// When listing them
	w := h.do(t, http.MethodGet, "/lstm/chats/private", h.token(t, "ada@example.com"), nil)

	// Then an empty list is returned, not null
	req.Equal(http.StatusOK, w.Code)
	body := decode(t, w)
	req.Equal("No private chats found", body["message"])
	req.Equal([]any{}, body["privateChats"])
}

func TestPrivateMessages_Passes_Chat_ID(t *testing.T) {
	h := newHarness(t)

	h.orchestrator.EXPECT().
		Submit(gomock.Any(), "ada@example.com", nil, domain.GetPrivateChatMessagesCommand{ChatID: "c-9"}).
		Return([]domain.Message{}, nil)

	w := h.do(t, http.MethodGet, "/lstm/chats/private/c-9", h.token(t, "ada@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Private messages fetched successfully", decode(t, w)["message"])
}

func TestSendGroupMessage_Forbidden(t *testing.T) {
	h := newHarness(t)
	cmd := domain.SendGroupMessageCommand{ChatID: "g-1", SenderEmail: "eve@example.com", MessageText: "hi"}

	h.orchestrator.EXPECT().
		Submit(gomock.Any(), "ada@example.com", nil, cmd).
		Return(nil, errors.ErrForbidden)

	w := h.do(t, http.MethodPost, "/lstm/messages/group/message", h.token(t, "ada@example.com"), cmd)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestEngine_Unavailable(t *testing.T) {
	h := newHarness(t)

	h.orchestrator.EXPECT().Submit(gomock.Any(), gomock.Any(), nil, gomock.Any()).Return(nil, errors.ErrBackpressure)

	w := h.do(t, http.MethodPost, "/lstm/messages/private/chat", h.token(t, "ada@example.com"),
		domain.CreatePrivateChatCommand{ReceiverEmail: "bob@example.com"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_Serves_Websocket_And_CORS(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusTeapot, h.do(t, http.MethodGet, "/ws", "", nil).Code)

	r := httptest.NewRequest(http.MethodOptions, "/lstm/auth/login", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, r)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
