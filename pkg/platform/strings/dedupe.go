// Package strings provides string slice utilities.
package strings

import "strings"

// DedupeAndTrimLower removes duplicates and empty strings from a slice,
// trimming whitespace and lowercasing each element. Order is preserved.
// Used to normalize the configured email suffix allow-list so matching
// stays case-insensitive.
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
