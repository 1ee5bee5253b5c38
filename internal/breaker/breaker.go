// Package breaker implements a persisted circuit breaker around external
// dependencies. State lives in the document store so it survives between
// stateless cron invocations; the half-open trial slot is claimed through a
// conditional update so overlapping runs cannot both probe.
package breaker

import (
	"context"
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// Store persists breaker state between invocations.
type Store interface {
	LoadBreakerState(ctx context.Context, dependency string) (*models.BreakerState, error)
	SaveBreakerState(ctx context.Context, state *models.BreakerState) error
	ClaimBreakerTrial(ctx context.Context, dependency string) (bool, error)
}

// Config tunes the failure threshold and cool-down.
type Config struct {
	// Threshold is the consecutive-failure count that opens the breaker.
	Threshold int
	// Cooldown is how long the breaker stays open before allowing a probe.
	Cooldown time.Duration
}

// DefaultConfig opens after 3 consecutive failures with a 5 minute cool-down.
func DefaultConfig() Config {
	return Config{Threshold: 3, Cooldown: 5 * time.Minute}
}

// Breaker guards one named dependency.
type Breaker struct {
	dependency string
	cfg        Config
	store      Store
	now        func() time.Time
}

// New creates a breaker for a dependency.
func New(dependency string, cfg Config, store Store) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultConfig().Cooldown
	}
	return &Breaker{dependency: dependency, cfg: cfg, store: store, now: time.Now}
}

// CanAttempt reports whether a call to the dependency is allowed right now.
// Closed always allows. Open allows nothing until the cool-down elapses, at
// which point the breaker moves to half-open and this caller competes for the
// single probe slot. A denied attempt is a skip signal, not an error.
func (b *Breaker) CanAttempt(ctx context.Context) (bool, error) {
	state, err := b.store.LoadBreakerState(ctx, b.dependency)
	if err != nil {
		return false, fmt.Errorf("breaker load: %w", err)
	}

	switch state.State {
	case models.BreakerClosed:
		return true, nil

	case models.BreakerOpen:
		if state.CooldownUntil != nil && b.now().Before(*state.CooldownUntil) {
			return false, nil
		}
		// Cool-down elapsed: move to half-open, then compete for the probe
		state.State = models.BreakerHalfOpen
		state.TrialPending = false
		if err := b.store.SaveBreakerState(ctx, state); err != nil {
			return false, fmt.Errorf("breaker half-open transition: %w", err)
		}
		return b.store.ClaimBreakerTrial(ctx, b.dependency)

	case models.BreakerHalfOpen:
		return b.store.ClaimBreakerTrial(ctx, b.dependency)
	}

	return false, fmt.Errorf("breaker %s: unknown state %q", b.dependency, state.State)
}

// RecordSuccess closes the breaker and clears the failure count. In half-open
// this resolves the probe.
func (b *Breaker) RecordSuccess(ctx context.Context) error {
	state, err := b.store.LoadBreakerState(ctx, b.dependency)
	if err != nil {
		return fmt.Errorf("breaker load: %w", err)
	}

	state.State = models.BreakerClosed
	state.Failures = 0
	state.CooldownUntil = nil
	state.TrialPending = false

	if err := b.store.SaveBreakerState(ctx, state); err != nil {
		return fmt.Errorf("breaker record success: %w", err)
	}
	return nil
}

// RecordFailure counts a dependency failure. A failed half-open probe reopens
// immediately; in closed, reaching the threshold opens the breaker and starts
// the cool-down.
func (b *Breaker) RecordFailure(ctx context.Context) error {
	state, err := b.store.LoadBreakerState(ctx, b.dependency)
	if err != nil {
		return fmt.Errorf("breaker load: %w", err)
	}

	now := b.now()
	state.Failures++
	state.LastFailure = &now
	state.TrialPending = false

	if state.State == models.BreakerHalfOpen || state.Failures >= b.cfg.Threshold {
		until := now.Add(b.cfg.Cooldown)
		state.State = models.BreakerOpen
		state.CooldownUntil = &until
	}

	if err := b.store.SaveBreakerState(ctx, state); err != nil {
		return fmt.Errorf("breaker record failure: %w", err)
	}
	return nil
}

// Status returns the current persisted state without mutating it.
func (b *Breaker) Status(ctx context.Context) (*models.BreakerState, error) {
	return b.store.LoadBreakerState(ctx, b.dependency)
}

// FormatStatus renders one breaker state for the CLI.
func FormatStatus(s *models.BreakerState) string {
	out := fmt.Sprintf("%s: %s (failures=%d", s.Dependency, s.State, s.Failures)
	if s.CooldownUntil != nil {
		out += fmt.Sprintf(", cooldown until %s", s.CooldownUntil.UTC().Format(time.RFC3339))
	}
	return out + ")"
}
