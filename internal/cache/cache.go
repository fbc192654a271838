// Package cache provides a small generic read cache with TTL expiry and a
// manager that sweeps expired entries in the background.
package cache

import (
	"context"
	"time"

	"financetracker/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// Purge drops every entry.
	Purge()
	Size() int
}

// Cleaner is implemented by caches that can drop their expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager periodically sweeps the registered caches.
type Manager struct {
	caches []Cleaner
	logger *log.Logger
	done   chan struct{}
	cancel context.CancelFunc
}

// NewManager creates a new cache manager
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{logger: logger.WithComponent(log.ComponentCache)}
}

// Register adds a cache to the manager. Call it before Start.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// Start sweeps every interval until ctx is done or Stop is called.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.run(ctx, interval)
}

// Sweep cleans all registered caches once and returns how many entries went.
func (m *Manager) Sweep() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

func (m *Manager) run(ctx context.Context, interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("Expired cache entries removed", log.FieldCount, n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop halts the sweeper and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
}
