package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_RejectsBadSpec(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.Add("every hour", "sweep", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep")
}

func TestScheduler_RunsAndReplaces(t *testing.T) {
	s := New(zerolog.Nop())
	var a, b atomic.Int32

	require.NoError(t, s.Add("@every 1s", "job", func(context.Context) error { a.Add(1); return nil }))
	require.NoError(t, s.Add("@every 1s", "job", func(context.Context) error { b.Add(1); return nil }))

	next, ok := s.Next("job")
	require.True(t, ok)
	assert.False(t, next.IsZero())

	s.Start()
	t.Cleanup(func() { s.Stop(context.Background()) })

	require.Eventually(t, func() bool { return b.Load() > 0 }, 3*time.Second, 20*time.Millisecond)
	assert.Zero(t, a.Load())
}

func TestScheduler_RemoveAndUnknown(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.Add("@every 1h", "job", func(context.Context) error { return nil }))
	s.Remove("job")
	_, ok := s.Next("job")
	assert.False(t, ok)
	s.Remove("missing")
}

func TestRunNow_LogsErrors(t *testing.T) {
	s := New(zerolog.Nop())
	called := false
	s.RunNow("once", func(ctx context.Context) error {
		called = true
		require.NoError(t, ctx.Err())
		return errors.New("boom")
	})
	assert.True(t, called)
}

func TestStop_CancelsTaskContext(t *testing.T) {
	s := New(zerolog.Nop())
	s.Start()
	s.Stop(context.Background())

	var seen error
	s.RunNow("after", func(ctx context.Context) error { seen = ctx.Err(); return nil })
	assert.ErrorIs(t, seen, context.Canceled)
}
