package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type BaseSuite struct {
	suite.Suite
	Config Config
	http   *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerURL == "" {
		s.T().Skip("E2E_SERVER_URL not set")
	}
	s.http = &http.Client{Timeout: 10 * time.Second}
}

func (s *BaseSuite) header(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// Call sends a JSON request and decodes the JSON answer into out when non nil.
func (s *BaseSuite) Call(method, path, token string, body, out any) int {
	t := s.T()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, strings.TrimRight(s.Config.ServerURL, "/")+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	t.Logf("HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		t.Logf("RESPONSE:\n%s", raw)
	}
	if out != nil && len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}

// Login returns a bearer token for an already registered account.
func (s *BaseSuite) Login(email string) string {
	var body struct {
		Token string `json:"token"`
	}
	code := s.Call(http.MethodPost, "/lstm/auth/login", "", map[string]string{"email": email}, &body)
	s.Require().Equal(http.StatusOK, code, "login failed for "+email)
	return body.Token
}

// Frame is one realtime event as seen by a test client.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Socket struct {
	s    *BaseSuite
	conn *websocket.Conn
}

// WithSocket opens a realtime session for token within a contextual test step.
func (s *BaseSuite) WithSocket(name, token string, fn func(ws *Socket)) {
	s.header(s.T(), name)
	u, err := url.Parse(s.Config.ServerURL)
	s.Require().NoError(err)
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = "/ws"
	u.RawQuery = url.Values{"token": {token}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	s.Require().NoError(err, "Failed to open websocket at "+u.Host)
	defer conn.Close()
	fn(&Socket{s: s, conn: conn})
}

func (w *Socket) Emit(name string, data any) {
	w.s.Require().NoError(w.conn.WriteJSON(map[string]any{"event": name, "data": data}))
}

// Expect reads until an event named name arrives and decodes it into out.
func (w *Socket) Expect(name string, out any) {
	w.s.Require().NoError(w.conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		var f Frame
		w.s.Require().NoError(w.conn.ReadJSON(&f), "waiting for "+name)
		if w.s.Config.DebugJSON {
			w.s.T().Logf("WS <- %s %s", f.Event, f.Data)
		}
		if f.Event == name {
			if out != nil {
				w.s.Require().NoError(json.Unmarshal(f.Data, out))
			}
			return
		}
	}
}

func (w *Socket) Close() {
	_ = w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = w.conn.Close()
}

// WithHealth provides a health client within a contextual test step
func (s *BaseSuite) WithHealth(name string, fn func(ctx context.Context, client healthpb.HealthClient)) {
	t := s.T()
	s.header(t, name)
	conn, err := grpc.NewClient(s.Config.GrpcAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)
			t.Logf("GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.GrpcAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	fn(ctx, healthpb.NewHealthClient(conn))
}
