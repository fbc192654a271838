package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a stored or typed amount into a finite number.
//
// It accepts numbers and numeric strings with either a dot (12.50) or a
// decimal comma (12,50). Only the first comma is treated as a separator.
// Anything else, including NaN and infinities, reports false.
//
// Examples:
//
//	ParseAmount("12,50") -> 12.5, true
//	ParseAmount(20.25)   -> 20.25, true
//	ParseAmount("abc")   -> 0, false
func ParseAmount(raw any) (float64, bool) {
	if f, ok := raw.(float64); ok {
		return f, isFinite(f)
	}
	s, ok := scalarString(raw)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func normalizeAmount(raw any) float64 {
	if !truthy(raw) {
		return 0
	}
	if f, ok := ParseAmount(raw); ok {
		return f
	}
	return 0
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatAmount renders an amount with two decimals and a decimal comma,
// for display only.
func FormatAmount(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', 2, 64), ".", ",", 1)
}

// EditAmount renders an amount with a decimal comma and every significant
// digit, so that parsing it back with ParseAmount yields the same value.
func EditAmount(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", ",", 1)
}
