package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MemoryStore keeps slots in a map. Values are copied on the way in and out.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]json.RawMessage)}
}

// NewMemoryStoreFromDir seeds a store from every <key>.json file in dir.
// A missing directory yields an empty store.
func NewMemoryStoreFromDir(dir string) (*MemoryStore, error) {
	s := NewMemoryStore()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		s.slots[strings.TrimSuffix(e.Name(), ".json")] = data
	}
	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.slots[key]), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value json.RawMessage) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = clone(value)
	return nil
}

// Keys lists the stored keys in no particular order.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	return keys
}

func (s *MemoryStore) Close() error { return nil }
