package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/sureshpilli97/ChatCresr-Server/api"
	"github.com/sureshpilli97/ChatCresr-Server/auth"
	"github.com/sureshpilli97/ChatCresr-Server/gateway"
	health "github.com/sureshpilli97/ChatCresr-Server/grpc"
	"github.com/sureshpilli97/ChatCresr-Server/internal"
	"github.com/sureshpilli97/ChatCresr-Server/moderation"
	"github.com/sureshpilli97/ChatCresr-Server/repositories"
	"github.com/sureshpilli97/ChatCresr-Server/runtime"
	"github.com/sureshpilli97/ChatCresr-Server/runtime/workers"
	"github.com/sureshpilli97/ChatCresr-Server/services"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and owns the process lifecycle so deferred
// cleanup runs before exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, repositories.InspectMapper)
	}

	users := repositories.NewUserRepository(db)
	chats := repositories.NewChatRepository(db, logger)
	messages, err := repositories.NewMessageRepository(db, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("message repository: %w", err)
	}
	defer func() { _ = messages.Close() }()

	// 3. Services
	words, err := censoredWords(config.CensoredWordsFile)
	if err != nil {
		return exitConfig, err
	}
	filter, err := moderation.NewFilter(words, charReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger.Info("Moderation enabled", "words", len(words))
	ledgerOpts := []services.LedgerOption{
		services.WithLanguageDetector(moderation.DetectLanguage),
		services.WithTextFilter(filter),
	}

	var mailer auth.Mailer = auth.NewLogMailer(logger)
	if config.MailEnabled() {
		mailer = auth.NewSMTPMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPass, config.EmailFrom)
	} else {
		logger.Warn("SMTP_HOST not set, OTP codes are only logged")
	}

	tokens := auth.NewTokenManager(config.JwtSecret, config.AuthTokenDuration)
	accounts := services.NewAccountService(logger, users, auth.NewOTPStore(config.OtpTTL), mailer, tokens)
	directory := services.NewDirectory(logger, chats, messages)
	ledger := services.NewLedger(logger, users, chats, messages, ledgerOpts...)

	// 4. Engine, supervision and background workers
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(logger, registry, config.DeliveryTimeout)
	processor := runtime.NewProcessor(logger, users, directory, ledger, registry, router)
	orchestrator := runtime.NewOrchestrator(logger, workers.NewSupervisor(logger, config.RestartInterval),
		processor, config.BufferSize, config.SubmitTimeout)

	healthServer := health.NewHealthServer(logger, orchestrator.Running, time.Second)
	orchestrator.Add(
		workers.NewValueLogGCWorker(logger, db, config.GCInterval),
		workers.NewHeartbeatWorker(logger, registry, orchestrator.QueueDepth, config.HeartbeatInterval),
		healthServer,
	)

	errChan := make(chan error, 3)
	go func() {
		if err := orchestrator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("orchestrator: %w", err)
		}
	}()

	// 5. HTTP (REST + websocket)
	ws := gateway.NewHandler(logger, tokens, orchestrator, gateway.Options{
		BufferSize:     config.ConnectionBufferSize,
		MaxMessageSize: int64(config.MaxMessageSize),
		AllowedOrigins: config.Origins(),
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           api.NewRouter(logger, api.NewHandlers(logger, accounts, orchestrator), tokens, ws, config.Origins()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 6. gRPC health
	grpcAddress := fmt.Sprintf("%s:%d", config.Host, config.GrpcPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}
	go func() {
		logger.Info("Starting gRPC health server", "address", grpcAddress)
		if err := healthServer.Serve(listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	code := exitOK
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
	case err = <-errChan:
		logger.Error("Component failed, shutting down", "error", err)
		code = exitRuntime
	}

	// 8. Final Cleanup
	healthServer.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")

	return code, err
}

// censoredWords prefers the operator file over the built-in dictionaries.
func censoredWords(path string) ([]string, error) {
	if path != "" {
		return moderation.LoadWords(path)
	}
	dict, err := moderation.DefaultDictionary()
	return dict.Words, err
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG).WithBypassLockGuard(true)
	}
	return options.WithLoggingLevel(badger.INFO)
}
