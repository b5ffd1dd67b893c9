// Package dedupe removes duplicate phrase candidates. Comparison lowercases
// the text and nothing else, so whitespace or punctuation variants are
// treated as distinct phrases.
package dedupe

import (
	"strings"

	"github.com/jamespheffernan/words-on-phone-server/internal/modules/generation"
)

// Normalize is the comparison key for phrase texts.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// CorpusSet builds the normalized lookup set for already-known texts.
func CorpusSet(texts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		set[Normalize(t)] = struct{}{}
	}
	return set
}

// Dedupe returns the candidates whose normalized text is unique within the
// slice (first occurrence wins) and absent from the corpus set. It preserves
// order, never mutates its inputs, and is idempotent.
func Dedupe(candidates []generation.Item, corpus map[string]struct{}) []generation.Item {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]generation.Item, 0, len(candidates))
	for _, c := range candidates {
		key := Normalize(c.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, known := corpus[key]; known {
			continue
		}
		out = append(out, c)
	}
	return out
}
