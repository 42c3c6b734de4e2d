package services

import "strings"

// DefaultBlockedWords is the basic keyword list applied to handles and bios
var DefaultBlockedWords = []string{"spam", "fake", "scam", "bot"}

// ContentFilter flags text containing any blocked word, case-insensitively.
// Matching is by substring, so "robotics" is flagged by "bot".
type ContentFilter struct {
	words []string
}

// NewContentFilter builds a filter from words; an empty list falls back to DefaultBlockedWords
func NewContentFilter(words []string) *ContentFilter {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultBlockedWords...)
	}
	return &ContentFilter{words: cleaned}
}

// Flagged reports whether text contains a blocked word
func (f *ContentFilter) Flagged(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range f.words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Words returns a copy of the active word list
func (f *ContentFilter) Words() []string {
	out := make([]string, len(f.words))
	copy(out, f.words)
	return out
}
