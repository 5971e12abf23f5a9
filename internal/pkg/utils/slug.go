package utils

import "strings"

// Slugify converts a title into a URL-safe identifier:
// lowercase, runs of anything outside [a-z0-9] collapse to one hyphen,
// no leading or trailing hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(ch)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
