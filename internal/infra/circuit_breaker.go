package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BreakerState is the position of a Breaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned by Do while the downstream is considered down.
var ErrCircuitOpen = errors.New("circuit open: downstream unavailable")

// BreakerConfig tunes a Breaker. Zero values fall back to DefaultBreakerConfig.
type BreakerConfig struct {
	Name           string
	MaxFailures    int           // consecutive failures that open the breaker
	ProbeSuccesses int           // consecutive half-open successes that close it
	Cooldown       time.Duration // time spent open before probing
}

// DefaultBreakerConfig is what the webhook client runs with.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{Name: name, MaxFailures: 5, ProbeSuccesses: 2, Cooldown: time.Minute}
}

// Breaker stops calling a receiver after repeated failures and lets probe
// calls through once the cooldown has passed. A failed probe reopens it.
// Cancelled or expired contexts are not counted against the receiver.
type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	def := DefaultBreakerConfig(cfg.Name)
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	if cfg.ProbeSuccesses <= 0 {
		cfg.ProbeSuccesses = def.ProbeSuccesses
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// State reports the current position, moving open to half-open once the
// cooldown has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

func (b *Breaker) current() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		b.transition(BreakerHalfOpen)
	}
	return b.state
}

// Do runs fn unless the breaker is open.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	b.mu.Lock()
	state := b.current()
	b.mu.Unlock()
	if state == BreakerOpen {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	if err != nil && ctx.Err() != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		if b.state == BreakerHalfOpen || b.failures >= b.cfg.MaxFailures {
			b.openedAt = b.now()
			b.transition(BreakerOpen)
		}
		return err
	}

	b.failures = 0
	if b.state == BreakerHalfOpen {
		b.successes++
		if b.successes >= b.cfg.ProbeSuccesses {
			b.transition(BreakerClosed)
		}
	}
	return nil
}

// transition must be called with mu held.
func (b *Breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}
	log.Info().Str("breaker", b.cfg.Name).Str("from", b.state.String()).Str("to", to.String()).Msg("circuit breaker state change")
	b.state = to
	b.failures = 0
	b.successes = 0
}
