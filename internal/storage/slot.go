// Package storage persists raw JSON documents under string keys ("slots").
// Stores never interpret the payload; decoding and normalization belong to
// the caller.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidKey = errors.New("invalid slot key")

type (
	// Slot reads and writes whole documents. Get returns nil, nil for a key
	// that was never written.
	Slot interface {
		Get(ctx context.Context, key string) (json.RawMessage, error)
		Set(ctx context.Context, key string, value json.RawMessage) error
	}

	// Store is a Slot that holds resources.
	Store interface {
		Slot
		Close() error
	}

	// Change describes a successful write that altered a slot.
	Change struct {
		Key      string
		Previous json.RawMessage
		Value    json.RawMessage
	}

	// Watcher delivers changes for one key until cancel is called.
	Watcher interface {
		Watch(key string, fn func(Change)) (cancel func())
	}
)

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}

func clone(b json.RawMessage) json.RawMessage {
	if b == nil {
		return nil
	}
	return append(json.RawMessage(nil), b...)
}
