package utils

import "strings"

// DigitsOnly strips everything but ASCII digits, so "(555) 123-4567" becomes "5551234567".
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
