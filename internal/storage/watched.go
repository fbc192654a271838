package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
)

// Watched wraps a Slot and notifies watchers after each write that changed
// a value. Callbacks run synchronously on the writing goroutine, in
// registration order, after the write has succeeded.
type Watched struct {
	Slot

	mu       sync.Mutex
	nextID   int
	watchers map[string][]watcher
}

type watcher struct {
	id int
	fn func(Change)
}

func NewWatched(inner Slot) *Watched {
	return &Watched{Slot: inner, watchers: make(map[string][]watcher)}
}

// Watch registers fn for key. An empty key watches every key.
func (w *Watched) Watch(key string, fn func(Change)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := w.nextID
	w.watchers[key] = append(w.watchers[key], watcher{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { w.remove(key, id) })
	}
}

func (w *Watched) remove(key string, id int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	list := w.watchers[key]
	for i, wt := range list {
		if wt.id == id {
			w.watchers[key] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(w.watchers[key]) == 0 {
		delete(w.watchers, key)
	}
}

func (w *Watched) Set(ctx context.Context, key string, value json.RawMessage) error {
	prev, err := w.Slot.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := w.Slot.Set(ctx, key, value); err != nil {
		return err
	}
	if prev != nil && bytes.Equal(prev, value) {
		return nil
	}

	change := Change{Key: key, Previous: prev, Value: clone(value)}
	for _, fn := range w.listeners(key) {
		fn(change)
	}
	return nil
}

func (w *Watched) listeners(key string) []func(Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var fns []func(Change)
	for _, wt := range w.watchers[key] {
		fns = append(fns, wt.fn)
	}
	if key != "" {
		for _, wt := range w.watchers[""] {
			fns = append(fns, wt.fn)
		}
	}
	return fns
}

// Close closes the wrapped slot when it holds resources.
func (w *Watched) Close() error {
	if c, ok := w.Slot.(Store); ok {
		return c.Close()
	}
	return nil
}
