package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() []Transaction {
	return []Transaction{
		{ID: "t1", Type: Expense, Category: "Lazer", Amount: 50, Date: "2026-01-02", Description: "cinema"},
		{ID: "t2", Type: Income, Category: "Salário", Amount: 3000, Date: "2026-01-05"},
	}
}

func TestApplyUpdate(t *testing.T) {
	n := fixedNormalizer()
	cats := DefaultCategories()

	t.Run("replaces the matching record", func(t *testing.T) {
		list := sampleList()
		got := n.ApplyUpdate(list, map[string]any{
			"id": "t1", "type": "expense", "category": "Transporte", "amount": "12,5", "date": "2026-01-03",
		}, cats)
		require.Len(t, got, 2)
		assert.Equal(t, Transaction{ID: "t1", Type: Expense, Category: "Transporte", Amount: 12.5, Date: "2026-01-03"}, got[0])
		assert.Equal(t, list[1], got[1])
		assert.False(t, SameList(list, got))
		assert.Equal(t, "Lazer", list[0].Category, "input must not change")
	})

	t.Run("invalid category is cleared and bad amount zeroed", func(t *testing.T) {
		got := n.ApplyUpdate(sampleList(), Transaction{ID: "t2", Type: Income, Category: "Lazer", Date: "2026-01-05"}, cats)
		assert.Equal(t, "", got[1].Category)

		got = n.ApplyUpdate(sampleList(), map[string]any{"id": "t2", "type": "income", "amount": "abc"}, cats)
		assert.Equal(t, 0.0, got[1].Amount)
		assert.Equal(t, "2026-03-14", got[1].Date)
	})

	t.Run("unknown id returns the same list", func(t *testing.T) {
		list := sampleList()
		got := n.ApplyUpdate(list, map[string]any{"id": "missing", "amount": 1.0}, cats)
		assert.True(t, SameList(list, got))
	})

	t.Run("numeric id never matches", func(t *testing.T) {
		list := []Transaction{{ID: "1", Type: Expense, Date: "2026-01-01"}}
		got := n.ApplyUpdate(list, map[string]any{"id": 1.0, "amount": 5.0}, cats)
		assert.True(t, SameList(list, got))
	})

	t.Run("no id", func(t *testing.T) {
		list := sampleList()
		assert.True(t, SameList(list, n.ApplyUpdate(list, map[string]any{"amount": 5.0}, cats)))
		assert.True(t, SameList(list, n.ApplyUpdate(list, "t1", cats)))
		assert.True(t, SameList(list, n.ApplyUpdate(list, nil, cats)))
	})
}

func TestRevalidate(t *testing.T) {
	n := fixedNormalizer()
	cats := DefaultCategories()
	catalog, err := RemoveCategory(DefaultCatalog(), Expense, "Lazer")
	require.NoError(t, err)

	got := n.Revalidate(sampleList(), catalog.Categories)
	assert.Equal(t, "", got[0].Category)
	assert.Equal(t, "Salário", got[1].Category)

	// revalidating against the same catalog changes nothing
	assert.Equal(t, sampleList(), n.Revalidate(sampleList(), cats))

	renamed, err := RenameCategory(DefaultCatalog(), Income, "Salário", "Salario")
	require.NoError(t, err)
	got = RevalidateTransactions(sampleList(), renamed.Categories)
	assert.Equal(t, "", got[1].Category)
}

func TestSameList(t *testing.T) {
	a := sampleList()
	assert.True(t, SameList(a, a))
	assert.False(t, SameList(a, sampleList()))
	assert.False(t, SameList(a, a[:1]))
	assert.True(t, SameList(nil, nil))
	assert.False(t, SameList(nil, []Transaction{}))
}

func TestRemoveTransaction(t *testing.T) {
	list := sampleList()
	got, ok := RemoveTransaction(list, "t1")
	assert.True(t, ok)
	assert.Equal(t, []Transaction{list[1]}, got)

	got, ok = RemoveTransaction(list, "nope")
	assert.False(t, ok)
	assert.Equal(t, list, got)
}
