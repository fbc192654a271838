package sheets

import (
	"reflect"
	"testing"

	"financetracker/internal/core"
)

func TestBuildRows(t *testing.T) {
	catalog := core.DefaultCatalog()
	catalog.Categories.Expense[3].Color = "#ff0000" // Lazer

	txs := []core.Transaction{
		{ID: "1", Type: core.Expense, Category: "Lazer", Amount: 50, Date: "2026-01-02", Description: "cinema"},
		{ID: "2", Type: core.Income, Category: "Salário", Amount: 3000, Date: "2026-01-05"},
		{ID: "3", Type: core.Expense, Category: "", Amount: 10, Date: "2026-01-02"},
	}

	rows := BuildRows(catalog, txs)
	if len(rows) != 1+3+4 {
		t.Fatalf("got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Header) {
		t.Fatalf("header = %v", rows[0])
	}

	wantBody := [][]any{
		{"2026-01-05", "Receita", "Salário", "", 3000.0, core.DefaultCategoryColor},
		{"2026-01-02", "Despesa", "Lazer", "cinema", 50.0, "#ff0000"},
		{"2026-01-02", "Despesa", "", "", 10.0, ""},
	}
	for i, want := range wantBody {
		if !reflect.DeepEqual(rows[i+1], want) {
			t.Errorf("row %d = %v, want %v", i+1, rows[i+1], want)
		}
	}

	if got := rows[len(rows)-1]; got[1] != "Saldo" || got[4] != 2940.0 {
		t.Errorf("balance row = %v", got)
	}
	if txs[0].ID != "1" {
		t.Error("input order must not change")
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]core.Transaction{
		{Type: core.Income, Amount: 100},
		{Type: core.Expense, Amount: 30.5},
		{Type: core.Expense, Amount: 19.5},
	})
	if got.Income != 100 || got.Expense != 50 || got.Balance() != 50 {
		t.Fatalf("Summarize = %+v", got)
	}
}
