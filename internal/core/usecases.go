package core

// ApplyTransactionUpdate replaces the transaction whose id matches updated
// and renormalizes the whole list. When no id matches, list itself is
// returned so callers can detect the no-op with SameList.
func ApplyTransactionUpdate(list []Transaction, updated any, cats CategoriesByType) []Transaction {
	return defaultNormalizer.ApplyUpdate(list, updated, cats)
}

// RevalidateTransactions renormalizes every transaction against cats. Run it
// after any catalog change so references to removed or renamed categories
// are cleared.
func RevalidateTransactions(list any, cats CategoriesByType) []Transaction {
	return defaultNormalizer.List(list, cats)
}

func (n *Normalizer) ApplyUpdate(list []Transaction, updated any, cats CategoriesByType) []Transaction {
	id, ok := recordID(updated)
	if !ok {
		return list
	}
	idx := -1
	for i, t := range list {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return list
	}

	next := make([]any, len(list))
	for i, t := range list {
		next[i] = t
	}
	next[idx] = updated
	return n.List(next, cats)
}

func (n *Normalizer) Revalidate(list any, cats CategoriesByType) []Transaction {
	return n.List(list, cats)
}

// Ids only match exactly and only as strings.
func recordID(v any) (string, bool) {
	switch x := v.(type) {
	case Transaction:
		return x.ID, true
	case *Transaction:
		if x == nil {
			return "", false
		}
		return x.ID, true
	case map[string]any:
		id, ok := x["id"].(string)
		return id, ok
	}
	return "", false
}

// SameList reports whether a and b share the same backing array, i.e. b is
// the unchanged result of a use-case applied to a.
func SameList(a, b []Transaction) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}

// RemoveTransaction returns a new list without the transaction identified by
// id, and whether anything was removed.
func RemoveTransaction(list []Transaction, id string) ([]Transaction, bool) {
	out := make([]Transaction, 0, len(list))
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out, len(out) != len(list)
}
