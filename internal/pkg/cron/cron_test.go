package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunTriggersJobByName(t *testing.T) {
	s := New(zap.NewNop())
	done := make(chan struct{})
	s.Register(Job{
		Name:     "sweep",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})

	require.NoError(t, s.Run(context.Background(), "sweep"))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestRunUnknownJob(t *testing.T) {
	s := New(zap.NewNop())
	err := s.Run(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestListReportsFailure(t *testing.T) {
	s := New(zap.NewNop())
	ran := make(chan struct{})
	s.Register(Job{
		Name:     "flaky",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			defer close(ran)
			return errors.New("disk full")
		},
	})

	require.NoError(t, s.Run(context.Background(), "flaky"))
	<-ran

	require.Eventually(t, func() bool {
		items := s.List()
		return len(items) == 1 && items[0].Status == StatusReject
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "disk full", s.List()[0].Message)
}
