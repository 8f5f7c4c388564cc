// Package email holds the address helpers shared by the policy engine and the
// registration stores. Normalization here defines set identity for the dedup
// store: two addresses differing only by case or surrounding whitespace are the
// same entry.
package email

import (
	"regexp"
	"strings"
)

// addressPattern accepts the usual local@domain shape: dotted local part,
// dotted domain, alphabetic TLD of 2-7 characters.
var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

// Normalize lower-cases and trims an address for case-insensitive membership.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Valid reports whether addr is a syntactically plausible email address.
func Valid(addr string) bool {
	if addr == "" {
		return false
	}
	return addressPattern.MatchString(addr)
}

// SuffixAllowed reports whether addr ends with one of the configured suffixes.
// An empty suffix list means no restriction. Matching is case-insensitive.
func SuffixAllowed(addr string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}
	normalized := Normalize(addr)
	for _, suffix := range suffixes {
		if strings.HasSuffix(normalized, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}
