package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictBands(t *testing.T) {
	assert.Equal(t, VerdictExcellent, verdictFor(80))
	assert.Equal(t, VerdictExcellent, verdictFor(100))
	assert.Equal(t, VerdictGood, verdictFor(60))
	assert.Equal(t, VerdictGood, verdictFor(79))
	assert.Equal(t, VerdictAcceptable, verdictFor(40))
	assert.Equal(t, VerdictPoor, verdictFor(20))
	assert.Equal(t, VerdictPoor, verdictFor(39))
	assert.Equal(t, VerdictReject, verdictFor(19))
	assert.Equal(t, VerdictReject, verdictFor(0))
}

func TestLexicalScoreBounds(t *testing.T) {
	cases := []string{
		"",
		"Pizza",
		"Pizza Party",
		"Road Trip Selfie",
		"Extraordinarily Complicated Bureaucratic Administrative Paperwork Procedures",
	}
	for _, text := range cases {
		got := lexicalScore(text)
		assert.GreaterOrEqual(t, got, 0, "text %q", text)
		assert.LessOrEqual(t, got, lexicalCap, "text %q", text)
	}
	assert.Zero(t, lexicalScore(""))
	assert.Zero(t, lexicalScore("   "))
}

func TestCategoryBoostClampedToFloor(t *testing.T) {
	// Technical categories penalize but never drive the boost negative.
	assert.Zero(t, categoryBoost("Quantum Entanglement", "Technology & Science"))

	boost := categoryBoost("Netflix Binge", "Movies & TV")
	assert.Greater(t, boost, 0)
	assert.LessOrEqual(t, boost, categoryCap)
}

func TestScoreLocalOnly(t *testing.T) {
	s := NewScorer(nil, nil)

	playful := s.Score(context.Background(), "Pizza Delivery", "Food & Drink", false)
	dry := s.Score(context.Background(), "Intricate Municipal Zoning Law", "Technology & Science", false)

	assert.Greater(t, playful.Total, dry.Total)
	assert.LessOrEqual(t, playful.Total, MaxLocalOnly)
	assert.GreaterOrEqual(t, dry.Total, 0)

	// Booster sub-scores never appear in local-only mode.
	assert.Zero(t, playful.Breakdown.Wikipedia)
	assert.Zero(t, playful.Breakdown.Reddit)
	assert.Empty(t, playful.Breakdown.BoosterError)
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer(nil, nil)
	a := s.Score(context.Background(), "Karaoke Night", "Music & Artists", false)
	b := s.Score(context.Background(), "Karaoke Night", "Music & Artists", false)
	assert.Equal(t, a, b)
}

func TestScoreWithBoostersMissingClient(t *testing.T) {
	s := NewScorer(nil, nil)
	got := s.Score(context.Background(), "Star Wars", "Movies & TV", true)

	// Lookup failure degrades the booster sub-score to zero and records why.
	assert.Zero(t, got.Breakdown.Wikipedia)
	assert.Zero(t, got.Breakdown.Reddit)
	assert.NotEmpty(t, got.Breakdown.BoosterError)
	assert.LessOrEqual(t, got.Total, MaxWithBoosters)
}

func TestHighQualityThresholdReachableLocally(t *testing.T) {
	s := NewScorer(nil, nil)
	got := s.Score(context.Background(), "Pizza Party", "Food & Drink", false)
	assert.GreaterOrEqual(t, got.Total, HighQualityThreshold)
}
