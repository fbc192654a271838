// Package sheets renders transactions as spreadsheet rows and defines the
// port a spreadsheet exporter implements.
package sheets

import (
	"context"

	"financetracker/internal/core"
)

// Exporter publishes a full snapshot of the transactions. Every export
// replaces the previous one; nothing is read back.
type Exporter interface {
	Export(ctx context.Context, catalog core.Catalog, txs []core.Transaction) (ExportResult, error)
}

// ExportResult describes what was written.
type ExportResult struct {
	Ref  string
	Rows int
}
