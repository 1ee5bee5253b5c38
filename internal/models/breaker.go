package models

import "time"

// Circuit breaker states.
const (
	BreakerClosed   = "closed"
	BreakerOpen     = "open"
	BreakerHalfOpen = "half_open"
)

// BreakerState is the persisted circuit-breaker record for one external
// dependency. Invocations are stateless, so the state lives in the document
// store and is mutated through conditional updates.
type BreakerState struct {
	Dependency    string     `json:"dependency"`
	State         string     `json:"state"`
	Failures      int        `json:"failures"`
	LastFailure   *time.Time `json:"last_failure,omitempty"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
	// TrialPending guards the single half-open probe. It is set via a
	// conditional update so concurrent invocations cannot both claim it.
	TrialPending bool `json:"trial_pending"`
}
