package workers

import (
	"context"
	goerrors "errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sureshpilli97/ChatCresr-Server/contract"
)

// gcDiscardRatio rewrites a value log file once half of it is garbage.
const gcDiscardRatio = 0.5

var _ contract.Worker = (*ValueLogGCWorker)(nil)

// ValueLogGCWorker reclaims badger value log space on a fixed interval.
// Message status flips rewrite values, so the log grows without it.
type ValueLogGCWorker struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewValueLogGCWorker(log *slog.Logger, db *badger.DB, interval time.Duration) *ValueLogGCWorker {
	return &ValueLogGCWorker{log: log, db: db, interval: interval}
}

func (w *ValueLogGCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rewrites, err := w.collect()
			if goerrors.Is(err, badger.ErrGCInMemoryMode) {
				w.log.Info("Value log GC disabled for in-memory storage")
				return nil
			}
			if err != nil {
				return err
			}
			if rewrites > 0 {
				w.log.Debug("Value log GC done", "rewrites", rewrites)
			}
		}
	}
}

// collect runs GC until badger has nothing left to rewrite.
func (w *ValueLogGCWorker) collect() (int, error) {
	rewrites := 0
	for {
		err := w.db.RunValueLogGC(gcDiscardRatio)
		if goerrors.Is(err, badger.ErrNoRewrite) || goerrors.Is(err, badger.ErrRejected) {
			return rewrites, nil
		}
		if err != nil {
			return rewrites, err
		}
		rewrites++
	}
}
