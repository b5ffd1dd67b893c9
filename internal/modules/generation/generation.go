// Package generation wraps the configured AI providers behind a single
// client interface that turns (topic, count, item ids) requests into
// candidate phrase items.
package generation

import "context"

// Difficulty tags accepted from providers. Anything else is dropped.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Request asks a provider for BatchSize phrase candidates. ItemIDs are
// caller-generated, len(ItemIDs) == BatchSize, and each returned item must
// echo one of them so results can be matched back deterministically.
type Request struct {
	Topic     string
	BatchSize int
	ItemIDs   []string
}

// Item is one candidate phrase returned by a provider.
type Item struct {
	ID         string `json:"id"`
	Topic      string `json:"topic,omitempty"`
	Text       string `json:"phrase"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Client is one configured generation backend.
//
// Structured reports whether the provider returns pre-validated items
// (JSON-mode responses); prompt-based providers return freeform text that
// goes through lenient extraction, and their batches are subject to the
// in-call quality retry.
type Client interface {
	Name() string
	Structured() bool
	Generate(ctx context.Context, req Request) ([]Item, error)
}

func validDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
