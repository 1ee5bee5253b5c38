package db

import (
	"context"
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
)

// RecordSpend appends a ledger entry for one generation attempt. The ledger
// is append-only; daily totals are computed by aggregation, never by
// read-modify-write of a counter.
func (c *Client) RecordSpend(ctx context.Context, day string, contentType models.ContentType, estimated float64, actual *float64) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE type::record("ledger", $id) SET
			day = $day,
			content_type = $content_type,
			estimated_cost = $estimated,
			actual_cost = $actual
	`, map[string]any{
		"id":           uuid.New().String()[:8],
		"day":          day,
		"content_type": string(contentType),
		"estimated":    estimated,
		"actual":       actual,
	})
	if err != nil {
		return fmt.Errorf("record spend: %w", err)
	}
	return nil
}

// SpendForDay sums the day's recorded costs. Actual cost is preferred when
// present; the estimate stands in otherwise.
func (c *Client) SpendForDay(ctx context.Context, day string) (float64, error) {
	results, err := surrealdb.Query[[]struct {
		Total float64 `json:"total"`
	}](ctx, c.db, `
		SELECT math::sum(actual_cost ?? estimated_cost) AS total FROM ledger
		WHERE day = $day
		GROUP ALL
	`, map[string]any{"day": day})
	if err != nil {
		return 0, fmt.Errorf("spend for day: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Total, nil
}

// SpendByType breaks a day's spend down per content type.
func (c *Client) SpendByType(ctx context.Context, day string) (map[models.ContentType]float64, error) {
	results, err := surrealdb.Query[[]struct {
		ContentType string  `json:"content_type"`
		Total       float64 `json:"total"`
	}](ctx, c.db, `
		SELECT content_type, math::sum(actual_cost ?? estimated_cost) AS total FROM ledger
		WHERE day = $day
		GROUP BY content_type
	`, map[string]any{"day": day})
	if err != nil {
		return nil, fmt.Errorf("spend by type: %w", err)
	}

	totals := make(map[models.ContentType]float64)
	if results != nil && len(*results) > 0 {
		for _, row := range (*results)[0].Result {
			totals[models.ContentType(row.ContentType)] = row.Total
		}
	}
	return totals, nil
}
