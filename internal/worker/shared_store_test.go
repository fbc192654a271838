package worker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"financetracker/internal/amqp"
	"financetracker/internal/cache"
	"financetracker/internal/core"
	"financetracker/internal/services"
	"financetracker/internal/storage"
)

// sharedStores returns a worker-side tracker reading through a warm cache and
// a second tracker writing straight to the same store.
func sharedStores(t *testing.T) (*storage.MemoryStore, *storage.Cached, *services.Tracker, *services.Tracker) {
	t.Helper()
	ctx := context.Background()
	shared := storage.NewMemoryStore()
	cached := storage.NewCached(shared, cache.NewLRUCache[json.RawMessage](16, time.Hour))

	local := services.NewTracker(cached, services.Options{})
	remote := services.NewTracker(shared, services.Options{})

	if err := cached.Set(ctx, local.TransactionsKey(), json.RawMessage(
		`[{"id":"a","type":"expense","category":"Lazer","amount":50,"date":"2026-01-02","description":""}]`)); err != nil {
		t.Fatal(err)
	}
	if _, err := local.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := remote.AddTransaction(ctx, core.TransactionInput{
		Type: "expense", Amount: "900", Date: "2026-01-03", Category: "Moradia",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := remote.RemoveCategory(ctx, core.Expense, "Lazer"); err != nil {
		t.Fatal(err)
	}
	return shared, cached, local, remote
}

func storedTransactions(t *testing.T, s storage.Slot, key string) []core.Transaction {
	t.Helper()
	raw, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return txs
}

func assertBothTransactionsKept(t *testing.T, txs []core.Transaction) {
	t.Helper()
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions in the shared store, have %d: %+v", len(txs), txs)
	}
	if txs[0].ID != "a" || txs[0].Category != "" {
		t.Errorf("first transaction = %+v, want id a with cleared category", txs[0])
	}
	if txs[1].Category != "Moradia" {
		t.Errorf("second transaction = %+v, want category Moradia", txs[1])
	}
}

func TestRunPeriodicReadsTransactionsPastCache(t *testing.T) {
	shared, cached, local, _ := sharedStores(t)

	w := NewRevalidationWorker(local, cached, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	w.RunPeriodic(ctx, 10*time.Millisecond)

	assertBothTransactionsKept(t, storedTransactions(t, shared, local.TransactionsKey()))
}

func TestHandleCatalogChangeReadsTransactionsPastCache(t *testing.T) {
	shared, cached, local, _ := sharedStores(t)

	w := NewRevalidationWorker(local, cached, nil)
	raw, err := shared.Get(context.Background(), local.CategoriesKey())
	if err != nil {
		t.Fatal(err)
	}
	msg := &amqp.SlotChangedMessage{Key: local.CategoriesKey(), Digest: amqp.Digest(raw)}
	if err := w.HandleSlotChanged(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	txs := storedTransactions(t, shared, local.TransactionsKey())
	assertBothTransactionsKept(t, txs)
	if strings.Contains(txs[0].Category, "Lazer") {
		t.Errorf("removed category still referenced: %+v", txs[0])
	}
}
