package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNormalizeCatalog(t *testing.T) {
	t.Run("nil resets to defaults", func(t *testing.T) {
		c := NormalizeCatalog(nil)
		assert.Equal(t, CatalogSchemaVersion, c.Version)
		assert.Equal(t, []string{"Salário", "Freelance", "Investimentos", "Outros"}, c.Categories.Names(Income))
		assert.Equal(t, []string{"Alimentação", "Transporte", "Moradia", "Lazer", "Saúde", "Outros"}, c.Categories.Names(Expense))
		for _, cat := range c.Categories.Expense {
			assert.Equal(t, DefaultCategoryColor, cat.Color)
		}
	})

	t.Run("unknown shapes reset to defaults", func(t *testing.T) {
		for _, raw := range []any{"x", 42.0, []any{"Lazer"}, map[string]any{"version": 1.0}, map[string]any{"categories": "nope"}} {
			assert.Equal(t, DefaultCatalog(), NormalizeCatalog(raw), "raw=%v", raw)
		}
	})

	t.Run("stored buckets are deduped and sorted", func(t *testing.T) {
		raw := decode(t, `{"version": 0, "categories": {
			"income": [{"name": "Salário", "color": "#000000"}],
			"expense": [" Transporte ", {"name": "alimentação", "color": "#111111"}, "Alimentação", "", 5, {"color": "#fff"}]
		}}`)
		c := NormalizeCatalog(raw)
		assert.Equal(t, CatalogSchemaVersion, c.Version)
		assert.Equal(t, []Category{{Name: "Salário", Color: "#000000"}}, c.Categories.Income)
		assert.Equal(t, []Category{
			{Name: "alimentação", Color: "#111111"},
			{Name: "Transporte", Color: DefaultCategoryColor},
		}, c.Categories.Expense)
	})

	t.Run("empty or missing bucket falls back to its defaults", func(t *testing.T) {
		raw := decode(t, `{"version": 1, "categories": {"income": [], "expense": ["Lazer"]}}`)
		c := NormalizeCatalog(raw)
		assert.Equal(t, DefaultCategories().Income, c.Categories.Income)
		assert.Equal(t, []string{"Lazer"}, c.Categories.Names(Expense))
	})

	t.Run("typed catalog input", func(t *testing.T) {
		in := Catalog{Categories: CategoriesByType{
			Income:  []Category{{Name: "B"}, {Name: "a"}},
			Expense: []Category{{Name: "Lazer", Color: "#123456"}},
		}}
		c := NormalizeCatalog(in)
		assert.Equal(t, []string{"a", "B"}, c.Categories.Names(Income))
		assert.Equal(t, "#123456", c.Categories.Expense[0].Color)
	})

	t.Run("idempotent", func(t *testing.T) {
		raw := decode(t, `{"categories": {"income": ["Zeta", "água", "Banco", "ÁGUA"], "expense": ["b", "A"]}}`)
		once := NormalizeCatalog(raw)
		data, err := json.Marshal(once)
		require.NoError(t, err)
		twice := NormalizeCatalog(decode(t, string(data)))
		assert.Equal(t, once, twice)
	})
}

func TestDedupeAndSortCategories(t *testing.T) {
	list := []any{"Banco", "Zeta", "água", "casa", "Água", map[string]any{"name": "Casa", "color": "#abcdef"}}
	got := DedupeAndSortCategories(list)

	// Brazilian collation: accents and case do not push names to the end.
	assert.Equal(t, []string{"água", "Banco", "casa", "Zeta"}, namesOf(got))

	items := make([]any, len(got))
	for i, c := range got {
		items[i] = c
	}
	assert.Equal(t, got, DedupeAndSortCategories(items))
}

func TestNormalizeLegacyCatalog(t *testing.T) {
	raw := decode(t, `{"version": 1, "categories": {
		"income": ["Zeta", "Água", {"name": "Banco", "color": "#000000"}, "zeta"],
		"expense": []
	}}`)
	c := NormalizeLegacyCatalog(raw)
	assert.True(t, c.Legacy)
	// plain byte order puts accented capitals after ASCII letters
	assert.Equal(t, []string{"Banco", "Zeta", "Água"}, c.Categories.Names(Income))
	assert.Equal(t, DefaultCategoryColor, c.Categories.Income[0].Color)
	assert.Equal(t, DefaultCategories().Names(Expense), c.Categories.Names(Expense))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": 1, "categories": {
		"income": ["Banco", "Zeta", "Água"],
		"expense": ["Alimentação", "Transporte", "Moradia", "Lazer", "Saúde", "Outros"]
	}}`, string(data))
}

func TestCatalogNeedsRewrite(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		mode CatalogMode
		want bool
	}{
		{"nothing stored", `null`, ObjectCatalog, true},
		{"no categories", `{"version": 1}`, ObjectCatalog, true},
		{"stale version", `{"version": 0, "categories": {"income": [], "expense": []}}`, ObjectCatalog, true},
		{"legacy names in object mode", `{"version": 1, "categories": {"income": ["A"], "expense": []}}`, ObjectCatalog, true},
		{"current object catalog", `{"version": 1, "categories": {"income": [{"name": "A", "color": "#fff"}], "expense": []}}`, ObjectCatalog, false},
		{"objects in legacy mode", `{"version": 1, "categories": {"income": [{"name": "A"}], "expense": []}}`, LegacyCatalog, true},
		{"current legacy catalog", `{"version": 1, "categories": {"income": ["A"], "expense": ["B"]}}`, LegacyCatalog, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CatalogNeedsRewrite(decode(t, tt.raw), tt.mode))
		})
	}
}

func namesOf(list []Category) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}
