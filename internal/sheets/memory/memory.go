// Package memory is an in-process Exporter that keeps the last snapshot,
// used for dry runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financetracker/internal/core"
	"financetracker/internal/sheets"
)

var _ sheets.Exporter = (*Exporter)(nil)

type Exporter struct {
	mu      sync.Mutex
	rows    [][]any
	exports int
}

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(_ context.Context, catalog core.Catalog, txs []core.Transaction) (sheets.ExportResult, error) {
	rows := sheets.BuildRows(catalog, txs)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = rows
	e.exports++
	return sheets.ExportResult{Ref: fmt.Sprintf("mem:%d", e.exports), Rows: len(rows)}, nil
}

// Rows returns the last exported snapshot.
func (e *Exporter) Rows() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]any(nil), e.rows...)
}
