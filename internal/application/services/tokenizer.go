package services

import "strings"

// NormalizeParts turns a host invocation into the parts handed to the mapper.
// The label is kept as-is, even when empty; the mapper reports that case.
// Tokens are trimmed, and blank ones are dropped without reordering the rest.
func NormalizeParts(label string, tokens []string) []string {
	parts := make([]string, 0, len(tokens)+1)
	parts = append(parts, label)
	for _, tok := range tokens {
		if trimmed := strings.TrimSpace(tok); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
