package services

import (
	"context"
	"fmt"

	"financetracker/internal/core"
	"financetracker/internal/log"
)

// AddTransaction validates in against the catalog and appends the new
// transaction with a fresh id.
func (t *Tracker) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := in.Validate(st.Catalog.Categories); err != nil {
		return core.Transaction{}, err
	}

	tx := in.Transaction(t.normalizer.NewID())
	next := make([]core.Transaction, 0, len(st.Transactions)+1)
	next = append(next, st.Transactions...)
	next = append(next, tx)
	next = t.normalizer.Revalidate(next, st.Catalog.Categories)

	if err := t.saveTransactions(ctx, next); err != nil {
		return core.Transaction{}, err
	}
	created := next[len(next)-1]
	t.logger.WithFields(log.NewFields().WithOperation(log.OpCreate).WithTransaction(created)).
		InfoContext(ctx, "Transaction added")
	return created, nil
}

// UpdateTransaction replaces the transaction identified by id.
func (t *Tracker) UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := in.Validate(st.Catalog.Categories); err != nil {
		return core.Transaction{}, err
	}

	next := t.normalizer.ApplyUpdate(st.Transactions, in.Transaction(id), st.Catalog.Categories)
	if core.SameList(st.Transactions, next) {
		return core.Transaction{}, fmt.Errorf("update %s: %w", id, ErrTransactionNotFound)
	}
	if err := t.saveTransactions(ctx, next); err != nil {
		return core.Transaction{}, err
	}

	var updated core.Transaction
	for _, tx := range next {
		if tx.ID == id {
			updated = tx
			break
		}
	}
	t.logger.WithFields(log.NewFields().WithOperation(log.OpUpdate).WithTransaction(updated)).
		InfoContext(ctx, "Transaction updated")
	return updated, nil
}

// DeleteTransaction removes the transaction identified by id.
func (t *Tracker) DeleteTransaction(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load(ctx)
	if err != nil {
		return err
	}
	next, removed := core.RemoveTransaction(st.Transactions, id)
	if !removed {
		return fmt.Errorf("delete %s: %w", id, ErrTransactionNotFound)
	}
	if err := t.saveTransactions(ctx, next); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTxID, id)
	return nil
}

// FindTransaction returns the transaction identified by id.
func (t *Tracker) FindTransaction(ctx context.Context, id string) (core.Transaction, error) {
	txs, err := t.Transactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("find %s: %w", id, ErrTransactionNotFound)
}
