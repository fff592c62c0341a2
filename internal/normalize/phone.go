package normalize

import "strings"

// Phone canonicalizes a phone cell to digits only. Spreadsheet float
// serialization (a trailing ".0") is dropped first, and the 998 country code
// is stripped from 12-digit numbers. Absent input returns "".
func Phone(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}
	s = strings.TrimSuffix(s, ".0")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 12 && strings.HasPrefix(digits, "998") {
		return digits[3:]
	}
	return digits
}

// PhoneMalformed reports whether a non-empty phone cell canonicalized to
// nothing.
func PhoneMalformed(raw, canonical string) bool {
	return canonical == "" && Clean(raw) != ""
}
