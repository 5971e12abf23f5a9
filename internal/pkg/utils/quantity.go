package utils

import (
	"math"
	"strconv"
	"strings"
)

// roundingEpsilon nudges values like 1.005 over the half-way mark before rounding.
const roundingEpsilon = 2.220446049250313e-16

// FormatQuantity rounds v to two decimals and strips trailing zeros
// and a trailing decimal point: 1.005 -> "1.01", 2.00 -> "2".
func FormatQuantity(v float64) string {
	rounded := math.Round((v+roundingEpsilon)*100) / 100
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// ParseServings reads a requested-servings value. ok is false unless the
// input is a finite number greater than zero.
func ParseServings(input string) (value float64, ok bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// ScaleRatio returns requested / base. It falls back to 1 when either side
// is absent or not positive, so callers never divide by zero.
func ScaleRatio(requested string, base *float64) float64 {
	if base == nil || *base <= 0 || math.IsNaN(*base) || math.IsInf(*base, 0) {
		return 1
	}
	v, ok := ParseServings(requested)
	if !ok {
		return 1
	}
	return v / *base
}

// ScaledQuantity formats q*ratio for display. Missing, zero and
// non-finite quantities have no display value.
func ScaledQuantity(q *float64, ratio float64) *string {
	if q == nil || *q == 0 || math.IsNaN(*q) || math.IsInf(*q, 0) {
		return nil
	}
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 1
	}
	s := FormatQuantity(*q * ratio)
	return &s
}

// IngredientLabel joins quantity, unit and text, skipping empty parts.
func IngredientLabel(quantity *string, unit *string, text string) string {
	parts := make([]string, 0, 3)
	if quantity != nil && strings.TrimSpace(*quantity) != "" {
		parts = append(parts, strings.TrimSpace(*quantity))
	}
	if unit != nil && strings.TrimSpace(*unit) != "" {
		parts = append(parts, strings.TrimSpace(*unit))
	}
	if t := strings.TrimSpace(text); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}
