package core

import (
	"sort"
	"strings"
	"time"
)

// TransactionInput is a transaction as typed by the user, before parsing.
type TransactionInput struct {
	Type        string
	Amount      string
	Date        string
	Category    string
	Description string
}

// ValidationErrors maps an input field to a message for the user.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid transaction: " + strings.Join(parts, "; ")
}

// Validate checks the input against cats. It returns ValidationErrors or nil.
func (in TransactionInput) Validate(cats CategoriesByType) error {
	errs := ValidationErrors{}

	t, typeOK := ParseTransactionType(in.Type)
	switch {
	case strings.TrimSpace(in.Type) == "":
		errs["type"] = "select a type"
	case !typeOK:
		errs["type"] = "type must be income or expense"
	}

	if amount, ok := ParseAmount(in.Amount); !ok || amount <= 0 {
		errs["amount"] = "enter a valid amount"
	}

	switch date := strings.TrimSpace(in.Date); {
	case date == "":
		errs["date"] = "enter a date"
	case !isCalendarDate(date):
		errs["date"] = "date must be YYYY-MM-DD"
	}

	if !typeOK || normalizeCategory(t, in.Category, cats) == "" {
		errs["category"] = "category is not valid for the selected type"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Transaction builds the transaction for a validated input.
func (in TransactionInput) Transaction(id string) Transaction {
	t, _ := ParseTransactionType(in.Type)
	amount, _ := ParseAmount(in.Amount)
	return Transaction{
		ID:          id,
		Type:        t,
		Category:    strings.TrimSpace(in.Category),
		Amount:      amount,
		Date:        strings.TrimSpace(in.Date),
		Description: strings.TrimSpace(in.Description),
	}
}

// InputFrom fills an input from an existing transaction, for editing.
func InputFrom(t Transaction) TransactionInput {
	return TransactionInput{
		Type:        t.Type.String(),
		Amount:      EditAmount(t.Amount),
		Date:        t.Date,
		Category:    t.Category,
		Description: t.Description,
	}
}

func isCalendarDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
