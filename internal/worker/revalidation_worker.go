// Package worker reacts to slot change events published by other processes.
package worker

import (
	"context"
	"sync"
	"time"

	"financetracker/internal/amqp"
	"financetracker/internal/core"
	"financetracker/internal/log"
)

// Revalidator is the part of services.Tracker the worker drives.
type Revalidator interface {
	CategoriesKey() string
	TransactionsKey() string
	Revalidate(ctx context.Context) ([]core.Transaction, bool, error)
}

// Invalidator drops locally cached copies of a slot.
type Invalidator interface {
	Invalidate(key string)
}

// RevalidationWorker revalidates transactions whenever the catalog slot
// changes, so references to removed or renamed categories are cleared even
// when the writer did not do it itself.
type RevalidationWorker struct {
	tracker Revalidator
	cache   Invalidator
	logger  *log.Logger

	mu         sync.Mutex
	lastDigest string
}

// NewRevalidationWorker creates a worker. cache may be nil.
func NewRevalidationWorker(tracker Revalidator, cache Invalidator, logger *log.Logger) *RevalidationWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &RevalidationWorker{
		tracker: tracker,
		cache:   cache,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSlotChanged processes one change message. It is an amqp.Handler.
func (w *RevalidationWorker) HandleSlotChanged(ctx context.Context, msg *amqp.SlotChangedMessage) error {
	if w.cache != nil {
		w.cache.Invalidate(msg.Key)
	}
	if msg.Key != w.tracker.CategoriesKey() {
		w.logger.DebugContext(ctx, "Ignoring change", log.FieldKey, msg.Key)
		return nil
	}

	w.mu.Lock()
	seen := msg.Digest != "" && msg.Digest == w.lastDigest
	w.mu.Unlock()
	if seen {
		w.logger.DebugContext(ctx, "Catalog digest already handled", "digest", msg.Digest)
		return nil
	}

	w.invalidateSlots()
	if err := w.revalidate(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastDigest = msg.Digest
	w.mu.Unlock()
	return nil
}

// RunPeriodic revalidates every interval until ctx is done. It backs up the
// event path in case messages are lost.
func (w *RevalidationWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.invalidateSlots()
			if err := w.revalidate(ctx); err != nil && ctx.Err() == nil {
				w.logger.ErrorContext(ctx, "Periodic revalidation failed", log.FieldError, err)
			}
		}
	}
}

// invalidateSlots drops both cached slots. Revalidation writes the
// transaction list back, so it must start from what is stored now.
func (w *RevalidationWorker) invalidateSlots() {
	if w.cache == nil {
		return
	}
	w.cache.Invalidate(w.tracker.CategoriesKey())
	w.cache.Invalidate(w.tracker.TransactionsKey())
}

func (w *RevalidationWorker) revalidate(ctx context.Context) error {
	txs, changed, err := w.tracker.Revalidate(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Revalidation failed", log.FieldError, err)
		return err
	}
	if changed {
		w.logger.InfoContext(ctx, "Transactions revalidated after catalog change",
			log.FieldOperation, log.OpRevalidate,
			log.FieldCount, len(txs))
	}
	return nil
}
