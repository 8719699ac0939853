package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sureshpilli97/ChatCresr-Server/auth"
)

const (
	basePath = "/lstm"
	wsPath   = "/ws"
)

// NewRouter assembles the REST routes, the websocket endpoint and CORS.
func NewRouter(log *slog.Logger, handlers *Handlers, tokens *auth.TokenManager, ws http.Handler, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(AccessLog(log))
	r.Handle(wsPath, ws).Methods(http.MethodGet)

	api := r.PathPrefix(basePath).Subrouter()

	public := api.PathPrefix("/auth").Subrouter()
	public.HandleFunc("/send-otp", handlers.SendOTP).Methods(http.MethodPost)
	public.HandleFunc("/register", handlers.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", handlers.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(Authenticate(log, tokens))
	protected.HandleFunc("/auth", handlers.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/update", handlers.Update).Methods(http.MethodPut)

	protected.HandleFunc("/chats/private", handlers.PrivateChats).Methods(http.MethodGet)
	protected.HandleFunc("/chats/group", handlers.GroupChats).Methods(http.MethodGet)
	protected.HandleFunc("/chats/private/{chatId}", handlers.PrivateMessages).Methods(http.MethodGet)
	protected.HandleFunc("/chats/group/{chatId}", handlers.GroupMessages).Methods(http.MethodGet)

	protected.HandleFunc("/messages/private/chat", handlers.CreatePrivateChat).Methods(http.MethodPost)
	protected.HandleFunc("/messages/private/message", handlers.SendPrivateMessage).Methods(http.MethodPost)
	protected.HandleFunc("/messages/group/chat", handlers.CreateGroupChat).Methods(http.MethodPost)
	protected.HandleFunc("/messages/group/message", handlers.SendGroupMessage).Methods(http.MethodPost)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)
}
