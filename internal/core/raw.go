package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DecodeRaw decodes a persisted JSON payload into the generic shape the
// normalizers consume. Empty or malformed payloads decode to nil, which the
// normalizers treat as "nothing stored".
func DecodeRaw(data []byte) any {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}

// truthy mirrors the loose emptiness checks used on persisted fields:
// nil, false, "", 0 and NaN count as absent.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	return true
}

// scalarString renders scalar JSON values as text. Objects and arrays have
// no meaningful text form and report false.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, x != nil
	case Transaction:
		return x.Record(), true
	case *Transaction:
		if x == nil {
			return nil, false
		}
		return x.Record(), true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out, true
	case []Transaction:
		out := make([]any, len(x))
		for i, t := range x {
			out[i] = t
		}
		return out, true
	case []Category:
		out := make([]any, len(x))
		for i, c := range x {
			out[i] = c
		}
		return out, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// categoryFromRaw accepts a bare name or a {name, color} object.
func categoryFromRaw(v any) (Category, bool) {
	switch x := v.(type) {
	case string:
		return NewCategory(x, ""), true
	case Category:
		return NewCategory(x.Name, x.Color), true
	case map[string]any:
		if x == nil {
			return Category{}, false
		}
		name, _ := scalarString(x["name"])
		color, _ := x["color"].(string)
		return NewCategory(name, color), true
	}
	return Category{}, false
}
