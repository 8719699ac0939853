//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Connection is a live, addressable client session.
// Send must not block the caller beyond ctx.
type Connection interface {
	ID() string
	Send(ctx context.Context, evt event.Outbound) error
	Close() error
}

// IRegistry is the in-memory presence table.
type IRegistry interface {
	Set(identity string, conn Connection) Connection
	Remove(conn Connection) (string, bool)
	Get(identity string) (Connection, bool)
	IsOnline(identity string) bool
	Connections() []Connection
	Count() int
}

// IOrchestrator accepts commands from any transport.
// conn is nil when the caller has no realtime session (REST).
type IOrchestrator interface {
	Submit(ctx context.Context, identity string, conn Connection, cmd domain.Command) (any, error)
	Start(ctx context.Context) error
	Stop()
}
