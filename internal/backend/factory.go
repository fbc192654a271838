package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"financetracker/internal/amqp"
	"financetracker/internal/cache"
	"financetracker/internal/log"
	"financetracker/internal/storage"
)

// DialFunc connects a change publisher.
type DialFunc func(url, exchange, queue string) (Publisher, error)

// DialAMQP is the production DialFunc.
func DialAMQP(url, exchange, queue string) (Publisher, error) {
	client, err := amqp.NewClient(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	dial   DialFunc
}

// NewFactory creates a new backend factory. A nil dial disables change events.
func NewFactory(logger *log.Logger, dial DialFunc) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
		dial:   dial,
	}
}

// CreateBackend builds the configured store and layers the read cache, the
// change notifier and, when configured, the change publisher on top of it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}
	closers := []func() error{store.Close}

	var slot storage.Slot = store
	var cached *storage.Cached
	if config.CacheSize > 0 {
		cached = storage.NewCached(store, cache.NewLRUCache[json.RawMessage](config.CacheSize, config.CacheTTL))
		slot = cached
	}
	watched := storage.NewWatched(slot)

	if config.AMQPURL != "" && f.dial != nil {
		pub, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events",
				log.FieldError, err)
		} else {
			watched.Watch("", f.publishChange(pub))
			closers = append([]func() error{pub.Close}, closers...)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.InfoContext(ctx, "Initialized store",
		log.FieldBackend, config.Type.String(),
		"cache_size", config.CacheSize)

	return &BackendResult{
		Store:   watched,
		Watcher: watched,
		Cached:  cached,
		Cleanup: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) createStore(config Config) (storage.Store, error) {
	switch config.Type {
	case MemoryBackend:
		if config.DataDirectory == "" {
			return storage.NewMemoryStore(), nil
		}
		s, err := storage.NewMemoryStoreFromDir(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		return s, nil
	case FileBackend:
		return storage.NewFileStore(config.DataDirectory)
	case SQLiteBackend:
		s, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// Publishing failures are logged and never fail the write that caused them.
func (f *DefaultFactory) publishChange(pub Publisher) func(storage.Change) {
	return func(c storage.Change) {
		if err := pub.PublishSlotChanged(context.Background(), c); err != nil {
			f.logger.Warn("Failed to publish slot change",
				log.FieldKey, c.Key,
				log.FieldError, err)
		}
	}
}
