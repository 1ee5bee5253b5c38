package pipeline

import (
	"context"
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/strategy"
)

// CoverageStore is the persistence surface of the coverage sync.
type CoverageStore interface {
	UpsertCoverage(ctx context.Context, query, cluster, intent string) error
}

// CoverageSyncer pushes the strategy document's target queries into the
// coverage tracker. Upserts never touch the covered flag or linked content of
// entries that already exist.
type CoverageSyncer struct {
	store  CoverageStore
	logger *Logger
}

// NewCoverageSyncer creates a coverage syncer.
func NewCoverageSyncer(store CoverageStore, logger *Logger) *CoverageSyncer {
	return &CoverageSyncer{store: store, logger: logger}
}

// SyncSummary reports one coverage sync run.
type SyncSummary struct {
	Queries  int
	Upserted int
	Failed   int
}

// Run flattens the strategy into target queries and upserts each one.
// Individual upsert failures are logged and skipped; the sync proceeds.
func (c *CoverageSyncer) Run(ctx context.Context, strat *strategy.Strategy) (SyncSummary, error) {
	queries := strat.Queries()
	summary := SyncSummary{Queries: len(queries)}
	if len(queries) == 0 {
		return summary, fmt.Errorf("coverage sync: strategy has no target queries")
	}

	for _, q := range queries {
		intent, _ := ClassifyIntent(q.Text)
		if err := c.store.UpsertCoverage(ctx, q.Text, q.Cluster, intent); err != nil {
			summary.Failed++
			c.logger.Error(ctx, models.PhasePersist, "", "coverage sync: upsert failed",
				map[string]any{"query": q.Text, "cluster": q.Cluster, "error": err.Error()})
			continue
		}
		summary.Upserted++
	}

	c.logger.Info(ctx, models.PhasePersist, "", "coverage sync: run complete",
		map[string]any{"queries": summary.Queries, "upserted": summary.Upserted, "failed": summary.Failed})
	return summary, nil
}
