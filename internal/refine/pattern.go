package refine

import (
	"context"
	"regexp"
	"strings"
)

// namePattern matches First Last, optionally with a middle initial
var namePattern = regexp.MustCompile(`\b([A-Z][a-z]+ (?:[A-Z]\. )?[A-Z][a-z]+)\b`)

// nameStopWords filter organization-ish false positives out of the
// capitalized-pair matches
var nameStopWords = []string{"company", "inc", "llc", "corp", "ltd"}

// PatternProvider extracts names with a capitalized-word-pair pattern.
// No network, no configuration; the default refiner.
type PatternProvider struct{}

// NewPatternProvider creates a pattern-based name extractor
func NewPatternProvider() *PatternProvider {
	return &PatternProvider{}
}

// Name returns the provider name
func (p *PatternProvider) Name() string {
	return "pattern"
}

// ExtractNames pulls capitalized name pairs out of a raw role line
func (p *PatternProvider) ExtractNames(_ context.Context, line string) ([]Name, error) {
	role := roleLabel(line)

	var names []Name
	for _, match := range namePattern.FindAllString(line, -1) {
		if isNameStopWord(match) {
			continue
		}
		names = append(names, Name{Person: match, Role: role})
	}

	return names, nil
}

func isNameStopWord(match string) bool {
	lower := strings.ToLower(match)
	for _, word := range nameStopWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
