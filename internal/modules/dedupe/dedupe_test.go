package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jamespheffernan/words-on-phone-server/internal/modules/generation"
)

func items(texts ...string) []generation.Item {
	out := make([]generation.Item, len(texts))
	for i, t := range texts {
		out[i] = generation.Item{ID: t, Text: t}
	}
	return out
}

func texts(in []generation.Item) []string {
	out := make([]string, len(in))
	for i, it := range in {
		out[i] = it.Text
	}
	return out
}

func TestNormalizeLowercasesOnly(t *testing.T) {
	assert.Equal(t, "pizza delivery", Normalize("Pizza Delivery"))
	// Whitespace and punctuation variants stay distinct.
	assert.NotEqual(t, Normalize("ice-cream"), Normalize("ice cream"))
	assert.NotEqual(t, Normalize(" pizza"), Normalize("pizza"))
}

func TestDedupePreservesFirstSeenOrder(t *testing.T) {
	in := items("Road Trip", "Beach Day", "road trip", "Karaoke", "BEACH DAY")
	out := Dedupe(in, nil)
	assert.Equal(t, []string{"Road Trip", "Beach Day", "Karaoke"}, texts(out))
}

func TestDedupeFiltersCorpus(t *testing.T) {
	corpus := CorpusSet([]string{"Coffee Maker", "Bubble Wrap"})
	in := items("coffee maker", "Toaster", "Bubble Wrap", "Blender")
	out := Dedupe(in, corpus)
	assert.Equal(t, []string{"Toaster", "Blender"}, texts(out))
}

func TestDedupeIdempotent(t *testing.T) {
	in := items("A", "b", "a", "C", "B")
	once := Dedupe(in, nil)
	twice := Dedupe(once, nil)
	assert.Equal(t, once, twice)
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	in := items("X", "x", "Y")
	_ = Dedupe(in, nil)
	assert.Equal(t, []string{"X", "x", "Y"}, texts(in))
}

func TestDedupeEmpty(t *testing.T) {
	assert.Empty(t, Dedupe(nil, nil))
	assert.Empty(t, Dedupe(items(), CorpusSet(nil)))
}
