package models

import "time"

// Pipeline phases, in execution order.
const (
	PhaseFetchQueue   = "fetch_queue"
	PhaseGenerate     = "generate"
	PhaseValidate     = "validate"
	PhaseQualityCheck = "quality_check"
	PhasePersist      = "persist"
)

// PipelineEvent is one append-only log record of a pipeline action.
type PipelineEvent struct {
	Timestamp   time.Time      `json:"timestamp"`
	Phase       string         `json:"phase"`
	Severity    string         `json:"severity"`
	ContentType ContentType    `json:"content_type,omitempty"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// BeaconEvent is a stored tracking beacon. Only allowlisted fields survive
// ingestion; everything else is dropped before this struct is built.
type BeaconEvent struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"session_id,omitempty"`
	Page        string    `json:"page,omitempty"`
	Component   string    `json:"component,omitempty"`
	Label       string    `json:"label,omitempty"`
	Destination string    `json:"destination,omitempty"`
	CTAID       string    `json:"cta_id,omitempty"`
	Referrer    string    `json:"referrer,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	Viewport    string    `json:"viewport,omitempty"`
	Received    time.Time `json:"received"`
}
