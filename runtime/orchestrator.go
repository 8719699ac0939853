package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sureshpilli97/ChatCresr-Server/contract"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

// Orchestrator is the single entry point of every transport.
// It queues commands for the engine and runs the supervised workers.
type Orchestrator struct {
	mu            sync.Mutex
	log           *slog.Logger
	supervisor    contract.ISupervisor
	requests      chan request
	engine        *Engine
	workers       []contract.Worker
	submitTimeout time.Duration
	running       atomic.Bool
	done          chan struct{}
	stopOnce      sync.Once
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, processor *Processor,
	bufferSize int, submitTimeout time.Duration) *Orchestrator {
	requests := make(chan request, bufferSize)
	return &Orchestrator{
		log:           log,
		supervisor:    supervisor,
		requests:      requests,
		engine:        NewEngine(log, processor, requests),
		submitTimeout: submitTimeout,
		done:          make(chan struct{}),
	}
}

// Add registers background workers supervised next to the engine.
func (o *Orchestrator) Add(workers ...contract.Worker) *Orchestrator {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.workers = append(o.workers, workers...)
	return o
}

// Submit queues cmd and waits for its outcome, bounded by the submit timeout.
func (o *Orchestrator) Submit(ctx context.Context, identity string, conn contract.Connection, cmd domain.Command) (any, error) {
	if !o.running.Load() {
		return nil, fmt.Errorf("%w: %s refused", errors.ErrEngineStopped, cmd.Name())
	}
	ctx, cancel := context.WithTimeout(ctx, o.submitTimeout)
	defer cancel()

	req := request{ctx: ctx, identity: identity, conn: conn, cmd: cmd, reply: make(chan result, 1)}
	select {
	case o.requests <- req:
	case <-o.done:
		return nil, fmt.Errorf("%w: %s refused", errors.ErrEngineStopped, cmd.Name())
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: command queue full: %v", errors.ErrBackpressure, ctx.Err())
	}

	select {
	case res := <-req.reply:
		return res.value, res.err
	case <-o.done:
		return nil, fmt.Errorf("%w: %s dropped", errors.ErrEngineStopped, cmd.Name())
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Start runs the engine and the workers until ctx ends or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	o.supervisor.Add(o.engine)
	o.supervisor.Add(o.workers...)
	o.mu.Unlock()

	o.running.Store(true)
	defer o.running.Store(false)

	o.log.Info("Starting orchestrator and all supervised workers", "workers", len(o.workers)+1)
	o.supervisor.Run(ctx)
	return nil
}

// Running reports whether commands are accepted.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// QueueDepth is the number of commands waiting for the engine.
func (o *Orchestrator) QueueDepth() int {
	return len(o.requests)
}

func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.log.Info("Requesting orchestrator shutdown")
		o.running.Store(false)
		close(o.done)
		o.supervisor.Stop()
	})
}
