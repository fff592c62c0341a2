// Package normalize canonicalizes the keys both feeds are joined on: incident
// numbers, phones, statuses, complaint prefixes, service codes and timestamps.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// absentTokens are cell values that stand for a missing value in exported
// spreadsheets.
var absentTokens = []string{"none", "nan", "null", "nat"}

// IsAbsent reports whether s is blank or one of the spreadsheet null tokens.
func IsAbsent(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, tok := range absentTokens {
		if strings.EqualFold(s, tok) {
			return true
		}
	}
	return false
}

// Clean trims s and maps absent tokens to the empty string.
func Clean(s string) string {
	if IsAbsent(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// IncidentID trims an incident number. Case is preserved; absent values
// return "".
func IncidentID(s string) string {
	return Clean(s)
}

// Fold returns the comparison form of s: NFKC-normalized, Unicode case folded,
// with runs of whitespace collapsed to one space.
func Fold(s string) string {
	s = norm.NFKC.String(s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// ContainsAny reports whether the comparison form of s contains any of the
// already-folded stems.
func ContainsAny(s string, stems []string) bool {
	f := Fold(s)
	if f == "" {
		return false
	}
	for _, stem := range stems {
		if strings.Contains(f, stem) {
			return true
		}
	}
	return false
}
