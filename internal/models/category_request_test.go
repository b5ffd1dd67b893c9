package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTransitions(t *testing.T) {
	assert.True(t, RequestStatusPending.CanTransition(RequestStatusConfirmed))
	assert.True(t, RequestStatusPending.CanTransition(RequestStatusFailed))
	assert.False(t, RequestStatusPending.CanTransition(RequestStatusGenerated))

	assert.True(t, RequestStatusConfirmed.CanTransition(RequestStatusGenerated))
	assert.True(t, RequestStatusConfirmed.CanTransition(RequestStatusFailed))
	assert.False(t, RequestStatusConfirmed.CanTransition(RequestStatusPending))

	for _, terminal := range []RequestStatus{RequestStatusGenerated, RequestStatusFailed} {
		assert.True(t, terminal.IsTerminal())
		for _, next := range []RequestStatus{RequestStatusPending, RequestStatusConfirmed, RequestStatusGenerated, RequestStatusFailed} {
			assert.False(t, terminal.CanTransition(next), "%s -> %s", terminal, next)
		}
	}
}

func TestStringArrayScan(t *testing.T) {
	var a StringArray
	assert.NoError(t, a.Scan(`["x","y"]`))
	assert.Equal(t, StringArray{"x", "y"}, a)

	assert.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	// Plain strings written by earlier versions become one-element arrays.
	assert.NoError(t, a.Scan(`"solo"`))
	assert.Equal(t, StringArray{"solo"}, a)

	assert.NoError(t, a.Scan([]byte("null")))
	assert.Empty(t, a)

	// Blank entries are not worth keeping.
	assert.NoError(t, a.Scan(`["x","","  ","y"]`))
	assert.Equal(t, StringArray{"x", "y"}, a)
}
