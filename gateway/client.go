// Package gateway is the websocket transport of the realtime protocol.
// Frames are JSON objects {"event": name, "data": payload}.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sureshpilli97/ChatCresr-Server/contract"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Time allowed to queue a direct answer.
	replyTimeout = 2 * time.Second
)

var _ contract.Connection = (*Client)(nil)

// Client is one websocket session. Outbound frames are queued on a bounded
// buffer drained by the write pump, the single writer of the socket.
type Client struct {
	id        string
	identity  string
	log       *slog.Logger
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(log *slog.Logger, conn *websocket.Conn, identity string, bufferSize int) *Client {
	id := uuid.NewString()
	return &Client{
		id:       id,
		identity: identity,
		log:      log.With("connection", id, "identity", identity),
		conn:     conn,
		send:     make(chan []byte, bufferSize),
		done:     make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Send queues evt without waiting beyond ctx.
func (c *Client) Send(ctx context.Context, evt event.Outbound) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.Name, err)
	}
	select {
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return errors.ErrConnectionClosed
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", errors.ErrBackpressure, ctx.Err())
	}
}

// Close stops both pumps, the write pump closes the socket on its way out.
// Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// readPump delivers every inbound frame to handle until the peer goes away.
func (c *Client) readPump(maxMessageSize int64, handle func(frame) bool) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Websocket closed unexpectedly", "error", err)
			}
			return
		}
		var f frame
		if err = json.Unmarshal(data, &f); err != nil || f.Event == "" {
			c.log.Debug("Malformed frame", "error", err)
			c.reply(event.New(event.Error, event.Failure{Error: "malformed frame", Kind: "validation"}))
			continue
		}
		if !handle(f) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.log.Debug("Write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// reply answers this connection only, dropping the frame when the buffer is full.
func (c *Client) reply(evt event.Outbound) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	if err := c.Send(ctx, evt); err != nil {
		c.log.Debug("Reply dropped", "event", evt.Name, "error", err)
	}
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
