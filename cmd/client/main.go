package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"http://localhost:5000"`
	Email     string `envconfig:"CHAT_EMAIL" required:"true"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO"`
	Colours   bool   `envconfig:"CHAT_COLOURS" default:"true"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, err := login(ctx, config.ServerURL, config.Email)
	if err != nil {
		return exitRuntime, err
	}

	wsURL, err := websocketURL(config.ServerURL, token)
	if err != nil {
		return exitConfig, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	out := newPrinter(os.Stdout, config.Email, config.Colours)
	go func() {
		for {
			var f inbound
			if err := conn.ReadJSON(&f); err != nil {
				if ctx.Err() == nil {
					log.Warn("Connection lost", "error", err)
				}
				stop()
				return
			}
			out.render(f)
		}
	}()

	for _, cmd := range []outbound{{Event: domain.CmdSetOnline, Data: config.Email}, {Event: domain.CmdGetChatParticipants}} {
		if err := conn.WriteJSON(cmd); err != nil {
			return exitRuntime, err
		}
	}
	out.help()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line := <-lines:
			cmd, err := parseLine(line)
			if err != nil {
				out.warn(err.Error())
				continue
			}
			if cmd.Event == "" {
				continue
			}
			if cmd.Event == domain.CmdDisconnect {
				return exitOK, nil
			}
			if err := conn.WriteJSON(cmd); err != nil {
				return exitRuntime, err
			}
		}
	}
}

func login(ctx context.Context, server, email string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email})
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(server, "/")+"/lstm/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Token string `json:"token"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login rejected (%d): %s", resp.StatusCode, payload.Error)
	}
	return payload.Token, nil
}

func websocketURL(server, token string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}
