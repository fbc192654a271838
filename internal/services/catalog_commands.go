package services

import (
	"context"
	"fmt"

	"financetracker/internal/core"
	"financetracker/internal/log"
)

// Every catalog command runs the same sequence: mutate the catalog, persist
// it, revalidate the transactions against it and persist them when they
// changed. A refused mutation writes nothing and returns the core error.

func (t *Tracker) AddCategory(ctx context.Context, typ core.TransactionType, name, color string) (core.Catalog, error) {
	return t.mutateCatalog(ctx, log.NewFields().WithOperation(log.OpCreate).WithCategory(typ, name),
		func(c core.Catalog) (core.Catalog, error) {
			return core.AddCategory(c, typ, name, color)
		})
}

func (t *Tracker) RemoveCategory(ctx context.Context, typ core.TransactionType, name string) (core.Catalog, error) {
	return t.mutateCatalog(ctx, log.NewFields().WithOperation(log.OpDelete).WithCategory(typ, name),
		func(c core.Catalog) (core.Catalog, error) {
			return core.RemoveCategory(c, typ, name)
		})
}

func (t *Tracker) RenameCategory(ctx context.Context, typ core.TransactionType, oldName, newName string) (core.Catalog, error) {
	fields := log.NewFields().WithOperation(log.OpRename).WithCategory(typ, oldName)
	fields[log.FieldNewCategory] = newName
	return t.mutateCatalog(ctx, fields,
		func(c core.Catalog) (core.Catalog, error) {
			return core.RenameCategory(c, typ, oldName, newName)
		})
}

func (t *Tracker) RecolorCategory(ctx context.Context, typ core.TransactionType, name, color string) (core.Catalog, error) {
	return t.mutateCatalog(ctx, log.NewFields().WithOperation(log.OpRecolor).WithCategory(typ, name),
		func(c core.Catalog) (core.Catalog, error) {
			return core.RecolorCategory(c, typ, name, color)
		})
}

func (t *Tracker) mutateCatalog(ctx context.Context, fields log.LogFields, mutate func(core.Catalog) (core.Catalog, error)) (core.Catalog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load(ctx)
	if err != nil {
		return core.Catalog{}, err
	}

	next, err := mutate(st.Catalog)
	if err != nil {
		t.logger.WithFields(fields).WarnContext(ctx, "Catalog change refused", log.FieldError, err)
		return st.Catalog, fmt.Errorf("%s category: %w", fields[log.FieldOperation], err)
	}
	if err := t.saveCatalog(ctx, next); err != nil {
		return st.Catalog, err
	}

	revalidated := t.normalizer.Revalidate(st.Transactions, next.Categories)
	cleared := countCleared(st.Transactions, revalidated)
	if cleared > 0 {
		if err := t.saveTransactions(ctx, revalidated); err != nil {
			return next, err
		}
	}

	t.logger.WithFields(fields).InfoContext(ctx, "Catalog updated",
		"cleared_transactions", cleared)
	return next, nil
}

// countCleared counts transactions whose category was dropped by revalidation.
func countCleared(before, after []core.Transaction) int {
	n := 0
	for i := range before {
		if i < len(after) && before[i].Category != after[i].Category {
			n++
		}
	}
	return n
}
