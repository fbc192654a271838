// Package services composes the pure core rules with a persisted slot store.
// It owns the read, normalize, write sequences the interactive layers used to
// perform implicitly.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"financetracker/internal/core"
	"financetracker/internal/log"
	"financetracker/internal/storage"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const (
	DefaultCategoriesKey   = "finance-tracker-categories"
	DefaultTransactionsKey = "finance-tracker-transactions"
)

// Options configures a Tracker. Zero values select the defaults.
type Options struct {
	CategoriesKey   string
	TransactionsKey string
	Mode            core.CatalogMode
	Normalizer      *core.Normalizer
	Logger          *log.Logger
}

// State is a normalized snapshot of both slots.
type State struct {
	Catalog      core.Catalog
	Transactions []core.Transaction
}

// Tracker serializes every read-modify-write on the two slots it manages.
type Tracker struct {
	slot       storage.Slot
	catsKey    string
	txKey      string
	mode       core.CatalogMode
	normalizer *core.Normalizer
	logger     *log.Logger

	mu sync.Mutex
}

func NewTracker(slot storage.Slot, opts Options) *Tracker {
	t := &Tracker{
		slot:       slot,
		catsKey:    opts.CategoriesKey,
		txKey:      opts.TransactionsKey,
		mode:       opts.Mode,
		normalizer: opts.Normalizer,
		logger:     opts.Logger,
	}
	if t.catsKey == "" {
		t.catsKey = DefaultCategoriesKey
	}
	if t.txKey == "" {
		t.txKey = DefaultTransactionsKey
	}
	if !t.mode.IsValid() {
		t.mode = core.ObjectCatalog
	}
	if t.normalizer == nil {
		t.normalizer = core.NewNormalizer()
	}
	if t.logger == nil {
		t.logger = log.Discard()
	}
	t.logger = t.logger.WithComponent(log.ComponentTracker)
	return t
}

// CategoriesKey is the slot holding the catalog.
func (t *Tracker) CategoriesKey() string { return t.catsKey }

// TransactionsKey is the slot holding the transactions.
func (t *Tracker) TransactionsKey() string { return t.txKey }

// Load reads both slots, normalizes them and writes back whatever was not
// already canonical: a catalog that needs a rewrite, or transactions whose
// normalized form differs from what is stored.
func (t *Tracker) Load(ctx context.Context) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

func (t *Tracker) Catalog(ctx context.Context) (core.Catalog, error) {
	st, err := t.Load(ctx)
	return st.Catalog, err
}

func (t *Tracker) Transactions(ctx context.Context) ([]core.Transaction, error) {
	st, err := t.Load(ctx)
	return st.Transactions, err
}

func (t *Tracker) load(ctx context.Context) (State, error) {
	var rawCats, rawTxs json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if rawCats, err = t.slot.Get(gctx, t.catsKey); err != nil {
			return fmt.Errorf("read categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if rawTxs, err = t.slot.Get(gctx, t.txKey); err != nil {
			return fmt.Errorf("read transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return State{}, err
	}

	storedCats := core.DecodeRaw(rawCats)
	catalog := core.NormalizeCatalogMode(storedCats, t.mode)
	if core.CatalogNeedsRewrite(storedCats, t.mode) {
		if err := t.saveCatalog(ctx, catalog); err != nil {
			return State{}, err
		}
		t.logger.InfoContext(ctx, "Catalog rewritten in canonical form",
			log.FieldOperation, log.OpRewrite,
			log.FieldCatalogMode, string(t.mode))
	}

	txs := t.normalizer.List(core.DecodeRaw(rawTxs), catalog.Categories)
	if rawTxs != nil {
		if _, err := t.saveTransactionsIfChanged(ctx, rawTxs, txs); err != nil {
			return State{}, err
		}
	}

	return State{Catalog: catalog, Transactions: txs}, nil
}

// Revalidate renormalizes the stored transactions against the current
// catalog. It reports whether anything had to be rewritten.
func (t *Tracker) Revalidate(ctx context.Context) ([]core.Transaction, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rawTxs, err := t.slot.Get(ctx, t.txKey)
	if err != nil {
		return nil, false, fmt.Errorf("read transactions: %w", err)
	}
	st, err := t.load(ctx)
	if err != nil {
		return nil, false, err
	}
	changed := rawTxs != nil && !sameJSON(rawTxs, st.Transactions)

	t.logger.InfoContext(ctx, "Transactions revalidated",
		log.FieldOperation, log.OpRevalidate,
		log.FieldCount, len(st.Transactions),
		log.FieldChanged, changed)
	return st.Transactions, changed, nil
}

func (t *Tracker) saveCatalog(ctx context.Context, c core.Catalog) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := t.slot.Set(ctx, t.catsKey, data); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}
	return nil
}

func (t *Tracker) saveTransactions(ctx context.Context, txs []core.Transaction) error {
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := t.slot.Set(ctx, t.txKey, data); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	return nil
}

func (t *Tracker) saveTransactionsIfChanged(ctx context.Context, stored json.RawMessage, txs []core.Transaction) (bool, error) {
	if sameJSON(stored, txs) {
		return false, nil
	}
	if err := t.saveTransactions(ctx, txs); err != nil {
		return false, err
	}
	t.logger.InfoContext(ctx, "Transactions rewritten in canonical form",
		log.FieldOperation, log.OpRewrite,
		log.FieldCount, len(txs))
	return true, nil
}

// sameJSON reports whether stored is byte-for-byte the compact encoding of v.
func sameJSON(stored json.RawMessage, v any) bool {
	want, err := json.Marshal(v)
	if err != nil {
		return false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, stored); err != nil {
		return false
	}
	return bytes.Equal(buf.Bytes(), want)
}
