package score

import "strings"

// Matcher decides whether a piece of text evidences a concept.
// The scoring rules only ever ask this one question, so a smarter matcher
// (stemming, fuzzy, semantic) can be swapped in without touching them.
type Matcher interface {
	Evidences(text, concept string) bool
}

// SubstringMatcher is a case-insensitive substring test
type SubstringMatcher struct{}

// Evidences reports whether concept appears anywhere in text, ignoring case.
// An empty concept is never evidenced; callers with an empty concept decide for themselves.
func (SubstringMatcher) Evidences(text, concept string) bool {
	if concept == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(concept))
}

// MatcherFunc adapts a plain function to the Matcher interface
type MatcherFunc func(text, concept string) bool

// Evidences calls f(text, concept)
func (f MatcherFunc) Evidences(text, concept string) bool {
	return f(text, concept)
}
