package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Normalizer coerces raw transaction records into canonical Transactions.
// Now and NewID are its only sources of non-determinism; tests replace them.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

// NewNormalizer returns a Normalizer backed by the system clock and UUIDv7 ids.
func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now, NewID: NewTransactionID}
}

var defaultNormalizer = NewNormalizer()

// NewTransactionID returns a time-ordered unique id.
func NewTransactionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NormalizeTransactionsList normalizes a raw list of transaction records
// against cats using the system clock.
func NormalizeTransactionsList(raw any, cats CategoriesByType) []Transaction {
	return defaultNormalizer.List(raw, cats)
}

// List keeps input order. Non-list input yields an empty list and elements
// that are not objects are dropped.
func (n *Normalizer) List(raw any, cats CategoriesByType) []Transaction {
	items, ok := asList(raw)
	if !ok {
		return []Transaction{}
	}
	out := make([]Transaction, 0, len(items))
	for _, item := range items {
		rec, ok := asObject(item)
		if !ok {
			continue
		}
		out = append(out, n.One(rec, cats))
	}
	return out
}

// One normalizes every field of a single record independently.
func (n *Normalizer) One(rec map[string]any, cats CategoriesByType) Transaction {
	t := normalizeType(rec["type"])
	return Transaction{
		ID:          n.ensureID(rec["id"]),
		Type:        t,
		Category:    normalizeCategory(t, rec["category"], cats),
		Amount:      normalizeAmount(rec["amount"]),
		Date:        n.normalizeDate(rec["date"]),
		Description: normalizeDescription(rec["description"]),
	}
}

// Unknown or missing types fall back to expense; a bad type never drops the record.
func normalizeType(raw any) TransactionType {
	if !truthy(raw) {
		return Expense
	}
	s, _ := scalarString(raw)
	switch strings.ToUpper(s) {
	case "INCOME":
		return Income
	case "EXPENSE":
		return Expense
	}
	return Expense
}

// The category is kept only when it names an entry of the type's bucket.
// Invalid data is cleared, never replaced by a guess.
func normalizeCategory(t TransactionType, raw any, cats CategoriesByType) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, c := range cats.Bucket(t) {
		if strings.TrimSpace(c.Name) == s {
			return s
		}
	}
	return ""
}

func (n *Normalizer) normalizeDate(raw any) string {
	if !truthy(raw) {
		return n.today()
	}
	s, ok := scalarString(raw)
	if !ok {
		return n.today()
	}
	if datePattern.MatchString(s) {
		return s
	}
	if d, ok := parseLooseDate(s); ok {
		return d.UTC().Format(dateLayout)
	}
	return n.today()
}

func (n *Normalizer) today() string {
	return n.Now().UTC().Format(dateLayout)
}

func parseLooseDate(s string) (t time.Time, ok bool) {
	// dateparse panics on a few malformed inputs.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func normalizeDescription(raw any) string {
	if !truthy(raw) {
		return ""
	}
	s, _ := scalarString(raw)
	return strings.TrimSpace(s)
}

func (n *Normalizer) ensureID(raw any) string {
	if truthy(raw) {
		if s, ok := scalarString(raw); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return n.NewID()
}

// Record returns the generic form of t, the shape the normalizer consumes.
func (t Transaction) Record() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"type":        t.Type.String(),
		"category":    t.Category,
		"amount":      t.Amount,
		"date":        t.Date,
		"description": t.Description,
	}
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %.2f %s %q", t.Date, t.Type, t.Amount, t.Category, t.Description)
}
