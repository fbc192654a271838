package backend

import (
	"context"

	"financetracker/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult is a ready slot store with change notification, and the
// function that releases everything behind it.
type BackendResult struct {
	Store   storage.Slot
	Watcher storage.Watcher
	// Cached is set when a read cache sits in front of the store.
	Cached  *storage.Cached
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Publisher announces slot changes to other processes.
type Publisher interface {
	PublishSlotChanged(ctx context.Context, change storage.Change) error
	Close() error
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
