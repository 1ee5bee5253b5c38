package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// rfc3339OrNil formats an optional time for a SurrealQL datetime cast.
func rfc3339OrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// LoadBreakerState returns the persisted breaker record for a dependency,
// creating a closed one on first use.
func (c *Client) LoadBreakerState(ctx context.Context, dependency string) (*models.BreakerState, error) {
	results, err := surrealdb.Query[[]models.BreakerState](ctx, c.db, `
		UPSERT type::record("breaker", $dep) SET
			dependency = $dep,
			state = IF state THEN state ELSE "closed" END,
			failures = IF failures THEN failures ELSE 0 END,
			trial_pending = IF trial_pending THEN trial_pending ELSE false END
		RETURN AFTER
	`, map[string]any{"dep": dependency})
	if err != nil {
		return nil, fmt.Errorf("load breaker state: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("load breaker state: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// SaveBreakerState overwrites the breaker record for a dependency.
func (c *Client) SaveBreakerState(ctx context.Context, state *models.BreakerState) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("breaker", $dep) SET
			dependency = $dep,
			state = $state,
			failures = $failures,
			last_failure = IF $last_failure THEN <datetime>$last_failure ELSE NONE END,
			cooldown_until = IF $cooldown_until THEN <datetime>$cooldown_until ELSE NONE END,
			trial_pending = $trial_pending
	`, map[string]any{
		"dep":            state.Dependency,
		"state":          state.State,
		"failures":       state.Failures,
		"last_failure":   rfc3339OrNil(state.LastFailure),
		"cooldown_until": rfc3339OrNil(state.CooldownUntil),
		"trial_pending":  state.TrialPending,
	})
	if err != nil {
		return fmt.Errorf("save breaker state: %w", wrapQueryError(err))
	}
	return nil
}

// ClaimBreakerTrial atomically claims the single half-open probe slot.
// The conditional update matches only when the breaker is half-open with no
// trial in flight, so concurrent invocations cannot both get the slot.
func (c *Client) ClaimBreakerTrial(ctx context.Context, dependency string) (bool, error) {
	results, err := surrealdb.Query[[]models.BreakerState](ctx, c.db, `
		UPDATE type::record("breaker", $dep) SET trial_pending = true
		WHERE state = "half_open" AND trial_pending = false
		RETURN AFTER
	`, map[string]any{"dep": dependency})
	if err != nil {
		return false, fmt.Errorf("claim breaker trial: %w", wrapQueryError(err))
	}

	return results != nil && len(*results) > 0 && len((*results)[0].Result) > 0, nil
}

// ListBreakerStates returns every persisted breaker record.
func (c *Client) ListBreakerStates(ctx context.Context) ([]models.BreakerState, error) {
	results, err := surrealdb.Query[[]models.BreakerState](ctx, c.db, `
		SELECT * FROM breaker ORDER BY dependency ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list breaker states: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.BreakerState{}, nil
	}
	return (*results)[0].Result, nil
}
