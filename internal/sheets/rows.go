package sheets

import (
	"sort"

	"financetracker/internal/core"
)

// Header is the first row of every export.
var Header = []any{"Data", "Tipo", "Categoria", "Descrição", "Valor", "Cor"}

// Totals summarizes a list of transactions.
type Totals struct {
	Income  float64
	Expense float64
}

func (t Totals) Balance() float64 { return t.Income - t.Expense }

// Summarize adds up income and expense amounts.
func Summarize(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income += tx.Amount
		case core.Expense:
			t.Expense += tx.Amount
		}
	}
	return t
}

// BuildRows renders the header, one row per transaction (newest first, ties
// in input order) and a blank row followed by the totals.
func BuildRows(catalog core.Catalog, txs []core.Transaction) [][]any {
	colors := make(map[core.TransactionType]map[string]string, 2)
	for _, t := range core.TransactionTypes() {
		m := make(map[string]string)
		for _, c := range catalog.Categories.Bucket(t) {
			m[c.Name] = c.Color
		}
		colors[t] = m
	}

	sorted := append([]core.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	rows := make([][]any, 0, len(sorted)+5)
	rows = append(rows, Header)
	for _, tx := range sorted {
		rows = append(rows, []any{
			tx.Date,
			tx.Type.Label(),
			tx.Category,
			tx.Description,
			tx.Amount,
			colors[tx.Type][tx.Category],
		})
	}

	totals := Summarize(txs)
	rows = append(rows,
		[]any{},
		[]any{"", core.Income.Label(), "", "", totals.Income, ""},
		[]any{"", core.Expense.Label(), "", "", totals.Expense, ""},
		[]any{"", "Saldo", "", "", totals.Balance(), ""},
	)
	return rows
}
