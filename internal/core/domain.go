// Package core holds the transaction and category model and the pure
// normalization rules applied to them on every read and write.
package core

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	// DefaultCategoryColor is used whenever a category has no usable color.
	DefaultCategoryColor = "#64748b"

	// CatalogSchemaVersion is stamped on every normalized catalog.
	CatalogSchemaVersion = 1
)

type (
	TransactionType string

	// Category is a named, colored tag used to classify a transaction.
	// Two categories are the same when their names match case-insensitively.
	Category struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	// CategoriesByType holds one ordered bucket per transaction type.
	CategoriesByType struct {
		Income  []Category `json:"income"`
		Expense []Category `json:"expense"`
	}

	// Catalog is the versioned category document.
	// Legacy catalogs keep bare names only and are serialized as strings.
	Catalog struct {
		Version    int              `json:"version"`
		Categories CategoriesByType `json:"categories"`
		Legacy     bool             `json:"-"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Amount      float64         `json:"amount"`
		Date        string          `json:"date"`
		Description string          `json:"description"`
	}
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrEmptyCategoryName      = errors.New("empty category name")
	ErrDuplicateCategory      = errors.New("category already exists")
	ErrCategoryNotFound       = errors.New("category not found")
)

var typeLabels = map[TransactionType]string{
	Income:  "Receita",
	Expense: "Despesa",
}

// TransactionTypes lists the canonical types in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{Income, Expense}
}

// ParseTransactionType is the strict parser for user input. Persisted data
// goes through the normalizer instead, which never rejects a record.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, true
	case Expense:
		return Expense, true
	}
	return "", false
}

func (t TransactionType) String() string {
	return string(t)
}

// Label returns the display label for the type.
func (t TransactionType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// NewCategory trims name and color and falls back to DefaultCategoryColor.
func NewCategory(name, color string) Category {
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultCategoryColor
	}
	return Category{Name: strings.TrimSpace(name), Color: color}
}

// Key is the uniqueness key of the category inside a bucket.
func (c Category) Key() string {
	return strings.ToLower(c.Name)
}

// UnmarshalJSON accepts both the legacy bare-name form and the object form.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cat, _ := categoryFromRaw(raw)
	*c = cat
	return nil
}

// Bucket returns the categories registered for t.
func (b CategoriesByType) Bucket(t TransactionType) []Category {
	switch t {
	case Income:
		return b.Income
	case Expense:
		return b.Expense
	}
	return nil
}

// Names returns the names in bucket t, in catalog order.
func (b CategoriesByType) Names(t TransactionType) []string {
	bucket := b.Bucket(t)
	names := make([]string, 0, len(bucket))
	for _, c := range bucket {
		names = append(names, c.Name)
	}
	return names
}

func (b CategoriesByType) withBucket(t TransactionType, list []Category) CategoriesByType {
	switch t {
	case Income:
		b.Income = list
	case Expense:
		b.Expense = list
	}
	return b
}

// MarshalJSON writes legacy catalogs with bare-string buckets so the two
// schemas never mix inside one persisted document.
func (c Catalog) MarshalJSON() ([]byte, error) {
	type plain Catalog
	if !c.Legacy {
		return json.Marshal(plain(c))
	}
	return json.Marshal(struct {
		Version    int                 `json:"version"`
		Categories map[string][]string `json:"categories"`
	}{
		Version: c.Version,
		Categories: map[string][]string{
			Income.String():  c.Categories.Names(Income),
			Expense.String(): c.Categories.Names(Expense),
		},
	})
}
