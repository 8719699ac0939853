package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/sureshpilli97/ChatCresr-Server/contract"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
)

// Router pushes outbound events to live connections.
// Delivery is one-shot: an offline identity, a full buffer or a closed
// connection drops the event.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
	timeout  time.Duration
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, timeout time.Duration) *Router {
	return &Router{log: log, registry: registry, timeout: timeout}
}

// Deliver sends evt to identity when online and reports whether it was handed over.
func (r *Router) Deliver(ctx context.Context, identity string, evt event.Outbound) bool {
	conn, ok := r.registry.Get(identity)
	if !ok {
		r.log.Debug("Recipient offline, event dropped", "identity", identity, "event", evt.Name)
		return false
	}
	return r.push(ctx, conn, evt)
}

// DeliverAll sends evt to each online identity once and returns the number of deliveries.
func (r *Router) DeliverAll(ctx context.Context, identities []string, evt event.Outbound) int {
	seen := make(map[string]struct{}, len(identities))
	delivered := 0
	for _, identity := range identities {
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}
		if r.Deliver(ctx, identity, evt) {
			delivered++
		}
	}
	return delivered
}

// Broadcast sends evt to every live connection.
func (r *Router) Broadcast(ctx context.Context, evt event.Outbound) int {
	delivered := 0
	for _, conn := range r.registry.Connections() {
		if r.push(ctx, conn, evt) {
			delivered++
		}
	}
	return delivered
}

// Reply answers the requesting connection directly, registered or not.
// A nil connection is a caller without a realtime session.
func (r *Router) Reply(ctx context.Context, conn contract.Connection, evt event.Outbound) bool {
	if conn == nil {
		return false
	}
	return r.push(ctx, conn, evt)
}

func (r *Router) push(ctx context.Context, conn contract.Connection, evt event.Outbound) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := conn.Send(ctx, evt); err != nil {
		r.log.Warn("Delivery dropped", "connection", conn.ID(), "event", evt.Name, "error", err)
		return false
	}
	return true
}
