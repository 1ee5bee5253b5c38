package db

import (
	"context"
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// coverageID builds the deterministic record ID for a (cluster, query) pair,
// which is what makes UpsertCoverage idempotent across monthly syncs.
func coverageID(cluster, query string) string {
	return models.Slugify(cluster) + "--" + models.Slugify(query)
}

// UpsertCoverage inserts or refreshes a coverage entry. Cluster and intent
// metadata are overwritten on resync; covered and content_id are preserved so
// a resync never un-publishes fulfilled coverage.
func (c *Client) UpsertCoverage(ctx context.Context, query, cluster, intent string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("coverage", $id) SET
			query = $query,
			cluster = $cluster,
			intent = $intent,
			synced = time::now(),
			covered = IF covered THEN covered ELSE false END,
			content_id = IF content_id THEN content_id ELSE NONE END
	`, map[string]any{
		"id":      coverageID(cluster, query),
		"query":   query,
		"cluster": cluster,
		"intent":  intent,
	})
	if err != nil {
		return fmt.Errorf("upsert coverage: %w", wrapQueryError(err))
	}
	return nil
}

// ListUncovered returns coverage entries without supporting content.
func (c *Client) ListUncovered(ctx context.Context, limit int) ([]models.CoverageEntry, error) {
	results, err := surrealdb.Query[[]models.CoverageEntry](ctx, c.db, `
		SELECT * FROM coverage WHERE covered = false ORDER BY synced ASC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list uncovered: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.CoverageEntry{}, nil
	}
	return (*results)[0].Result, nil
}

// MarkCovered flips a coverage entry to covered and links the content that
// fulfilled it.
func (c *Client) MarkCovered(ctx context.Context, cluster, query, contentID string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("coverage", $id) SET
			covered = true,
			content_id = $content_id
	`, map[string]any{
		"id":         coverageID(cluster, query),
		"content_id": contentID,
	})
	if err != nil {
		return fmt.Errorf("mark covered: %w", err)
	}
	return nil
}

// CoverageStats returns covered and total entry counts.
func (c *Client) CoverageStats(ctx context.Context) (covered, total int, err error) {
	results, err := surrealdb.Query[[]struct {
		Covered bool `json:"covered"`
		Count   int  `json:"count"`
	}](ctx, c.db, `
		SELECT covered, count() AS count FROM coverage GROUP BY covered
	`, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("coverage stats: %w", err)
	}

	if results != nil && len(*results) > 0 {
		for _, row := range (*results)[0].Result {
			total += row.Count
			if row.Covered {
				covered = row.Count
			}
		}
	}
	return covered, total, nil
}
