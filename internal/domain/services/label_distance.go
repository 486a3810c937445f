// Package services contains domain services for the command registry.
// These are stateless functions over the domain model.
package services

import (
	"math"
	"unicode/utf8"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// LabelDifference returns the normalized edit distance between two labels.
// Both inputs are case-folded first. The result is the Levenshtein distance
// divided by the rune length of the longer input: 0.0 for equal labels and
// 1.0 when no rune lines up. Two empty labels are equal.
func LabelDifference(a, b string) float64 {
	a, b = command.FoldLabel(a), command.FoldLabel(b)

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0.0
	}
	return float64(fuzzy.LevenshteinDistance(a, b)) / float64(longest)
}

// ClosestLabelDifference returns the smallest difference between input and any
// label of the description. A nil description is infinitely far away.
func ClosestLabelDifference(desc *command.Description, input string) float64 {
	if desc == nil {
		return math.Inf(1)
	}
	best := math.Inf(1)
	for _, label := range desc.Labels() {
		if d := LabelDifference(label, input); d < best {
			best = d
		}
	}
	return best
}
