package core

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CatalogMode selects which persisted catalog schema is written back.
type CatalogMode string

const (
	ObjectCatalog CatalogMode = "object"
	LegacyCatalog CatalogMode = "legacy"
)

func (m CatalogMode) IsValid() bool {
	return m == ObjectCatalog || m == LegacyCatalog
}

var defaultCategoryNames = map[TransactionType][]string{
	Income:  {"Salário", "Freelance", "Investimentos", "Outros"},
	Expense: {"Alimentação", "Transporte", "Moradia", "Lazer", "Saúde", "Outros"},
}

// DefaultCategories returns a fresh copy of the built-in catalog buckets.
func DefaultCategories() CategoriesByType {
	return CategoriesByType{
		Income:  defaultBucket(Income),
		Expense: defaultBucket(Expense),
	}
}

// DefaultCatalog returns the catalog used when nothing usable is stored.
func DefaultCatalog() Catalog {
	return Catalog{Version: CatalogSchemaVersion, Categories: DefaultCategories()}
}

func defaultBucket(t TransactionType) []Category {
	names := defaultCategoryNames[t]
	out := make([]Category, 0, len(names))
	for _, n := range names {
		out = append(out, NewCategory(n, ""))
	}
	return out
}

// NormalizeCatalog migrates any persisted catalog blob into the current
// object schema. It never fails: unusable input resets to defaults.
func NormalizeCatalog(raw any) Catalog {
	return normalizeCatalog(raw, ObjectCatalog)
}

// NormalizeLegacyCatalog is the names-only variant. Buckets are deduplicated
// and sorted by plain string order and colors are not kept.
func NormalizeLegacyCatalog(raw any) Catalog {
	return normalizeCatalog(raw, LegacyCatalog)
}

// NormalizeCatalogMode dispatches on mode; unknown modes use the object schema.
func NormalizeCatalogMode(raw any, mode CatalogMode) Catalog {
	if mode == LegacyCatalog {
		return NormalizeLegacyCatalog(raw)
	}
	return NormalizeCatalog(raw)
}

func normalizeCatalog(raw any, mode CatalogMode) Catalog {
	legacy := mode == LegacyCatalog
	out := Catalog{Version: CatalogSchemaVersion, Legacy: legacy}

	stored, ok := catalogBuckets(raw)
	if !ok {
		out.Categories = DefaultCategories()
		return out
	}

	for _, t := range TransactionTypes() {
		list, isList := asList(stored[t.String()])
		var bucket []Category
		switch {
		case isList && len(list) > 0 && legacy:
			bucket = dedupeAndSortLegacy(list)
		case isList && len(list) > 0:
			bucket = DedupeAndSortCategories(list)
		default:
			bucket = defaultBucket(t)
		}
		out.Categories = out.Categories.withBucket(t, bucket)
	}
	return out
}

// catalogBuckets extracts the "categories" object of a catalog blob.
func catalogBuckets(raw any) (map[string]any, bool) {
	switch x := raw.(type) {
	case Catalog:
		return map[string]any{
			Income.String():  x.Categories.Income,
			Expense.String(): x.Categories.Expense,
		}, true
	case *Catalog:
		if x == nil {
			return nil, false
		}
		return catalogBuckets(*x)
	case map[string]any:
		cats, ok := x["categories"].(map[string]any)
		return cats, ok && cats != nil
	}
	return nil, false
}

// CatalogNeedsRewrite reports whether a stored blob must be replaced by its
// normalized form: nothing stored, no categories, a stale version, or bare
// names left over from the legacy schema while running in object mode.
func CatalogNeedsRewrite(raw any, mode CatalogMode) bool {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return true
	}
	buckets, ok := obj["categories"].(map[string]any)
	if !ok || buckets == nil {
		return true
	}
	if v, ok := obj["version"].(float64); !ok || int(v) != CatalogSchemaVersion {
		return true
	}
	for _, t := range TransactionTypes() {
		list, _ := buckets[t.String()].([]any)
		for _, item := range list {
			_, isName := item.(string)
			if isName != (mode == LegacyCatalog) {
				return true
			}
		}
	}
	return false
}

// DedupeAndSortCategories maps each element (bare name or {name, color}
// object) to a Category, drops empty names, keeps the first occurrence of
// each case-insensitive name and sorts with Brazilian Portuguese collation.
// Applying it to its own output returns the same list.
func DedupeAndSortCategories(list []any) []Category {
	out := dedupeCategories(list)
	sortByCollation(out)
	return out
}

func dedupeAndSortLegacy(list []any) []Category {
	out := dedupeCategories(list)
	for i := range out {
		out[i].Color = DefaultCategoryColor
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func dedupeCategories(list []any) []Category {
	seen := make(map[string]struct{}, len(list))
	out := make([]Category, 0, len(list))
	for _, item := range list {
		c, ok := categoryFromRaw(item)
		if !ok || c.Name == "" {
			continue
		}
		if _, dup := seen[c.Key()]; dup {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out
}

// A Collator keeps internal buffers, so each sort gets its own.
func sortByCollation(list []Category) {
	cl := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(list, func(i, j int) bool {
		return cl.CompareString(list[i].Name, list[j].Name) < 0
	})
}

func (c Catalog) resort(list []Category) []Category {
	items := make([]any, len(list))
	for i, cat := range list {
		items[i] = cat
	}
	if c.Legacy {
		return dedupeAndSortLegacy(items)
	}
	return DedupeAndSortCategories(items)
}

func hasName(list []Category, name string) bool {
	key := strings.ToLower(name)
	for _, c := range list {
		if c.Key() == key {
			return true
		}
	}
	return false
}
