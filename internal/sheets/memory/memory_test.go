package memory

import (
	"context"
	"testing"

	"financetracker/internal/core"
)

func TestExporterKeepsLastSnapshot(t *testing.T) {
	e := New()
	ctx := context.Background()

	if _, err := e.Export(ctx, core.DefaultCatalog(), []core.Transaction{{ID: "a", Type: core.Income, Amount: 1, Date: "2026-01-01"}}); err != nil {
		t.Fatal(err)
	}
	res, err := e.Export(ctx, core.DefaultCatalog(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref != "mem:2" {
		t.Fatalf("Ref = %q, want mem:2", res.Ref)
	}
	if rows := e.Rows(); len(rows) != res.Rows || len(rows) != 5 {
		t.Fatalf("rows = %d, result says %d", len(rows), res.Rows)
	}
}
