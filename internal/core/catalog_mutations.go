package core

import "strings"

// Catalog mutations never modify their input. When a mutation is refused the
// input catalog is returned unchanged together with the reason, so callers
// that only care about the data can ignore the error.

// AddCategory inserts a category into bucket t.
func AddCategory(c Catalog, t TransactionType, name, color string) (Catalog, error) {
	if !t.IsValid() {
		return c, ErrInvalidTransactionType
	}
	cat := NewCategory(name, color)
	if cat.Name == "" {
		return c, ErrEmptyCategoryName
	}
	bucket := c.Categories.Bucket(t)
	if hasName(bucket, cat.Name) {
		return c, ErrDuplicateCategory
	}
	next := make([]Category, 0, len(bucket)+1)
	next = append(next, bucket...)
	next = append(next, cat)
	return c.with(t, c.resort(next)), nil
}

// RemoveCategory drops every entry of bucket t whose name is exactly name.
// Removing an absent category is not an error.
func RemoveCategory(c Catalog, t TransactionType, name string) (Catalog, error) {
	if !t.IsValid() {
		return c, ErrInvalidTransactionType
	}
	bucket := c.Categories.Bucket(t)
	next := make([]Category, 0, len(bucket))
	for _, cat := range bucket {
		if cat.Name != name {
			next = append(next, cat)
		}
	}
	return c.with(t, next), nil
}

// RenameCategory renames the entry named exactly oldName. The new name may
// differ from the old one only by case.
func RenameCategory(c Catalog, t TransactionType, oldName, newName string) (Catalog, error) {
	if !t.IsValid() {
		return c, ErrInvalidTransactionType
	}
	nextName := strings.TrimSpace(newName)
	if nextName == "" {
		return c, ErrEmptyCategoryName
	}
	bucket := c.Categories.Bucket(t)
	key := strings.ToLower(nextName)
	found := false
	for _, cat := range bucket {
		if cat.Name == oldName {
			found = true
			continue
		}
		if cat.Key() == key {
			return c, ErrDuplicateCategory
		}
	}
	if !found {
		return c, ErrCategoryNotFound
	}

	next := make([]Category, len(bucket))
	for i, cat := range bucket {
		if cat.Name == oldName {
			cat.Name = nextName
		}
		next[i] = cat
	}
	return c.with(t, c.resort(next)), nil
}

// RecolorCategory changes the color of the entry named exactly name. Legacy
// catalogs carry no colors and refuse the change.
func RecolorCategory(c Catalog, t TransactionType, name, color string) (Catalog, error) {
	if !t.IsValid() {
		return c, ErrInvalidTransactionType
	}
	bucket := c.Categories.Bucket(t)
	next := make([]Category, len(bucket))
	found := false
	for i, cat := range bucket {
		if cat.Name == name {
			found = true
			if !c.Legacy {
				cat = NewCategory(cat.Name, color)
			}
		}
		next[i] = cat
	}
	if !found {
		return c, ErrCategoryNotFound
	}
	return c.with(t, next), nil
}

func (c Catalog) with(t TransactionType, list []Category) Catalog {
	c.Categories = c.Categories.withBucket(t, list)
	return c
}
