package utils

import "strings"

// NormalizeName is the comparison key for tag and category names.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UniqueNames trims names, drops blanks and de-duplicates case-insensitively.
// Order follows the first occurrence of each key; the spelling kept is the
// last one seen for that key.
func UniqueNames(names []string) []string {
	order := make([]string, 0, len(names))
	spelling := make(map[string]string, len(names))
	for _, raw := range names {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		key := NormalizeName(trimmed)
		if _, seen := spelling[key]; !seen {
			order = append(order, key)
		}
		spelling[key] = trimmed
	}

	out := make([]string, 0, len(order))
	for _, key := range order {
		out = append(out, spelling[key])
	}
	return out
}

// StringPtr returns nil for blank strings, otherwise a pointer to the trimmed value.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
