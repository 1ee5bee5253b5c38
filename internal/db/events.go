package db

import (
	"context"
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// AppendEvent writes one pipeline log event. Events are append-only and never
// updated or deleted.
func (c *Client) AppendEvent(ctx context.Context, ev models.PipelineEvent) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE pipeline_event SET
			phase = $phase,
			severity = $severity,
			content_type = $content_type,
			message = $message,
			metadata = $metadata
	`, map[string]any{
		"phase":        ev.Phase,
		"severity":     ev.Severity,
		"content_type": string(ev.ContentType),
		"message":      ev.Message,
		"metadata":     ev.Metadata,
	})
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// StoreBeacon persists a tracking beacon. Callers treat failures as
// best-effort; the tracking endpoint never surfaces them.
func (c *Client) StoreBeacon(ctx context.Context, ev models.BeaconEvent) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE beacon_event SET
			type = $type,
			session_id = $session_id,
			page = $page,
			component = $component,
			label = $label,
			destination = $destination,
			cta_id = $cta_id,
			referrer = $referrer,
			user_agent = $user_agent,
			viewport = $viewport
	`, map[string]any{
		"type":        ev.Type,
		"session_id":  ev.SessionID,
		"page":        ev.Page,
		"component":   ev.Component,
		"label":       ev.Label,
		"destination": ev.Destination,
		"cta_id":      ev.CTAID,
		"referrer":    ev.Referrer,
		"user_agent":  ev.UserAgent,
		"viewport":    ev.Viewport,
	})
	if err != nil {
		return fmt.Errorf("store beacon: %w", err)
	}
	return nil
}
