// Package runtime owns presence, delivery and the serialized command loop.
// Business rules live in services, this package only orders and routes them.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sureshpilli97/ChatCresr-Server/contract"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

var _ contract.Worker = (*Engine)(nil)

type request struct {
	ctx      context.Context
	identity string
	conn     contract.Connection
	cmd      domain.Command
	reply    chan result
}

type result struct {
	value any
	err   error
}

// Engine is the single worker processing every command in arrival order.
// Directory, ledger, registry and router calls never interleave.
type Engine struct {
	log       *slog.Logger
	processor *Processor
	requests  <-chan request
}

func NewEngine(log *slog.Logger, processor *Processor, requests <-chan request) *Engine {
	return &Engine{log: log, processor: processor, requests: requests}
}

func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("Starting command engine")
	for {
		select {
		case <-ctx.Done():
			e.log.Debug("Stopping command engine")
			return ctx.Err()
		case req, ok := <-e.requests:
			if !ok {
				e.log.Debug("Command channel is closed")
				return nil
			}
			e.process(req)
		}
	}
}

// process answers the caller before propagating a panic to the supervisor.
func (e *Engine) process(req request) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Command panicked", "command", req.cmd.Name(), "panic", r)
			req.reply <- result{err: fmt.Errorf("%w: %s", errors.ErrWorkerPanic, req.cmd.Name())}
			panic(r)
		}
	}()

	// The caller already gave up
	if err := req.ctx.Err(); err != nil {
		req.reply <- result{err: err}
		return
	}

	value, err := e.processor.Handle(req.ctx, req.identity, req.conn, req.cmd)
	if err != nil {
		e.log.Debug("Command rejected", "command", req.cmd.Name(), "identity", req.identity, "error", err)
	}
	req.reply <- result{value: value, err: err}
}
