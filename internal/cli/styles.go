package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"financetracker/internal/core"
)

var (
	PrimaryColor = lipgloss.Color("#2563EB")
	SuccessColor = lipgloss.Color("#16A34A")
	WarningColor = lipgloss.Color("#CA8A04")
	ErrorColor   = lipgloss.Color("#DC2626")
	SubtleColor  = lipgloss.Color("#64748B")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(SubtleColor)

	IncomeStyle  = lipgloss.NewStyle().Foreground(SuccessColor)
	ExpenseStyle = lipgloss.NewStyle().Foreground(ErrorColor)
)

const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	Swatch      = "■"
)

func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatSwatch renders a colored square followed by the category name.
func FormatSwatch(c core.Category) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(Swatch) + " " + c.Name
}

// FormatAmount colors an amount by transaction type.
func FormatAmount(t core.TransactionType, amount float64) string {
	s := core.FormatAmount(amount)
	if t == core.Income {
		return IncomeStyle.Render("+" + s)
	}
	return ExpenseStyle.Render("-" + s)
}

// PrintCatalog writes every bucket with its color swatches.
func PrintCatalog(w io.Writer, c core.Catalog) {
	for _, t := range core.TransactionTypes() {
		fmt.Fprintln(w, TitleStyle.Render(t.Label()))
		bucket := c.Categories.Bucket(t)
		if len(bucket) == 0 {
			fmt.Fprintln(w, SubtleStyle.Render("  (empty)"))
		}
		for _, cat := range bucket {
			fmt.Fprintf(w, "  %s %s\n", FormatSwatch(cat), SubtleStyle.Render(cat.Color))
		}
	}
}

// PrintTransactions writes a table of transactions in the given order.
func PrintTransactions(w io.Writer, txs []core.Transaction) {
	header := fmt.Sprintf("%-38s %-10s %-8s %-16s %12s  %s", "ID", "Data", "Tipo", "Categoria", "Valor", "Descrição")
	fmt.Fprintln(w, TableHeaderStyle.Render(header))
	if len(txs) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("no transactions"))
		return
	}
	for _, tx := range txs {
		category := tx.Category
		if category == "" {
			category = "-"
		}
		amount := FormatAmount(tx.Type, tx.Amount)
		pad := 12 - lipgloss.Width(amount)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(w, "%-38s %-10s %-8s %-16s %s%s  %s\n",
			tx.ID, tx.Date, tx.Type.Label(), category, strings.Repeat(" ", pad), amount, tx.Description)
	}
}
