package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
)

// EnqueueItem creates a pending queue item and returns its ID.
func (c *Client) EnqueueItem(ctx context.Context, contentType models.ContentType, topic, cluster string) (string, error) {
	id := uuid.New().String()[:8]

	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE type::record("queue_item", $id) SET
			content_type = $content_type,
			status = "pending",
			topic = $topic,
			cluster = $cluster,
			attempts = 0
	`, map[string]any{
		"id":           id,
		"content_type": string(contentType),
		"topic":        topic,
		"cluster":      cluster,
	})
	if err != nil {
		return "", fmt.Errorf("enqueue item: %w", wrapQueryError(err))
	}
	return id, nil
}

// NextPendingItems returns up to limit pending items, oldest first. Items that
// have exhausted their attempt budget are excluded.
func (c *Client) NextPendingItems(ctx context.Context, limit, maxAttempts int) ([]models.QueueItem, error) {
	results, err := surrealdb.Query[[]models.QueueItem](ctx, c.db, `
		SELECT * FROM queue_item
		WHERE status = "pending" AND attempts < $max_attempts
		ORDER BY created ASC
		LIMIT $limit
	`, map[string]any{"limit": limit, "max_attempts": maxAttempts})
	if err != nil {
		return nil, fmt.Errorf("next pending items: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.QueueItem{}, nil
	}
	return (*results)[0].Result, nil
}

// ClaimItem transitions an item from pending to processing. The WHERE clause
// makes the claim exclusive: if another invocation already moved the item out
// of pending, the update matches nothing and ErrAlreadyClaimed is returned.
func (c *Client) ClaimItem(ctx context.Context, id string) error {
	results, err := surrealdb.Query[[]models.QueueItem](ctx, c.db, `
		UPDATE type::record("queue_item", $id) SET
			status = "processing",
			attempts += 1,
			last_attempt = time::now()
		WHERE status = "pending"
		RETURN AFTER
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("claim item: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}

// CompleteItem marks a processing item completed.
func (c *Client) CompleteItem(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("queue_item", $id) SET
			status = "completed",
			fail_reason = NONE
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("complete item: %w", err)
	}
	return nil
}

// FailItem marks an item failed with a reason code.
func (c *Client) FailItem(ctx context.Context, id, reason string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("queue_item", $id) SET
			status = "failed",
			fail_reason = $reason
	`, map[string]any{"id": id, "reason": reason})
	if err != nil {
		return fmt.Errorf("fail item: %w", err)
	}
	return nil
}

// ReleaseItem returns a processing item to pending without consuming its
// outcome, used when a claimed item is skipped before the generation call.
func (c *Client) ReleaseItem(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("queue_item", $id) SET status = "pending"
		WHERE status = "processing"
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("release item: %w", err)
	}
	return nil
}

// CompletedToday counts items of a type completed since midnight UTC, for
// daily cap enforcement.
func (c *Client) CompletedToday(ctx context.Context, contentType models.ContentType, now time.Time) (int, error) {
	dayStart := now.UTC().Truncate(24 * time.Hour)

	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `
		SELECT count() AS count FROM queue_item
		WHERE content_type = $content_type
			AND status = "completed"
			AND last_attempt >= <datetime>$day_start
		GROUP ALL
	`, map[string]any{
		"content_type": string(contentType),
		"day_start":    dayStart.Format(time.RFC3339),
	})
	if err != nil {
		return 0, fmt.Errorf("completed today: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}

// PendingCountByType returns the number of pending items per content type.
func (c *Client) PendingCountByType(ctx context.Context) (map[models.ContentType]int, error) {
	results, err := surrealdb.Query[[]struct {
		ContentType string `json:"content_type"`
		Count       int    `json:"count"`
	}](ctx, c.db, `
		SELECT content_type, count() AS count FROM queue_item
		WHERE status = "pending"
		GROUP BY content_type
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("pending count: %w", err)
	}

	counts := make(map[models.ContentType]int)
	if results != nil && len(*results) > 0 {
		for _, row := range (*results)[0].Result {
			counts[models.ContentType(row.ContentType)] = row.Count
		}
	}
	return counts, nil
}

// ListItems returns recent queue items for inspection, newest first.
func (c *Client) ListItems(ctx context.Context, limit int) ([]models.QueueItem, error) {
	results, err := surrealdb.Query[[]models.QueueItem](ctx, c.db, `
		SELECT * FROM queue_item ORDER BY created DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.QueueItem{}, nil
	}
	return (*results)[0].Result, nil
}
