package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail(context.Context) error { return errBoom }
func pass(context.Context) error { return nil }

// newTestBreaker returns a breaker driven by a manual clock.
func newTestBreaker(cfg BreakerConfig) (*Breaker, *time.Time) {
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b := NewBreaker(cfg)
	b.now = func() time.Time { return clock }
	return b, &clock
}

func TestBreaker_OpensAfterMaxFailures(t *testing.T) {
	b, _ := newTestBreaker(BreakerConfig{Name: "test", MaxFailures: 3, Cooldown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	}
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(BreakerConfig{MaxFailures: 2})
	ctx := context.Background()

	require.Error(t, b.Do(ctx, fail))
	require.NoError(t, b.Do(ctx, pass))
	require.Error(t, b.Do(ctx, fail))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_ProbesCloseAfterCooldown(t *testing.T) {
	b, clock := newTestBreaker(BreakerConfig{MaxFailures: 1, ProbeSuccesses: 2, Cooldown: time.Minute})
	ctx := context.Background()

	require.Error(t, b.Do(ctx, fail))
	*clock = clock.Add(59 * time.Second)
	assert.Equal(t, BreakerOpen, b.State())

	*clock = clock.Add(time.Second)
	assert.Equal(t, BreakerHalfOpen, b.State())

	require.NoError(t, b.Do(ctx, pass))
	assert.Equal(t, BreakerHalfOpen, b.State())
	require.NoError(t, b.Do(ctx, pass))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b, clock := newTestBreaker(BreakerConfig{MaxFailures: 1, Cooldown: time.Minute})
	ctx := context.Background()

	require.Error(t, b.Do(ctx, fail))
	*clock = clock.Add(time.Minute)
	require.Error(t, b.Do(ctx, fail))
	assert.Equal(t, BreakerOpen, b.State())
	assert.Equal(t, "open", b.State().String())
}

func TestBreaker_CancelledContextDoesNotCount(t *testing.T) {
	b, _ := newTestBreaker(BreakerConfig{MaxFailures: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Do(ctx, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, BreakerClosed, b.State())
}
