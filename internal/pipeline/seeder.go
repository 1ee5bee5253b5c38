package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/guard"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// seedScanLimit bounds how many uncovered queries one seeding run considers.
const seedScanLimit = 200

// SeedStore is the persistence surface the seeder needs.
type SeedStore interface {
	ListUncovered(ctx context.Context, limit int) ([]models.CoverageEntry, error)
	PendingCountByType(ctx context.Context) (map[models.ContentType]int, error)
	CompletedToday(ctx context.Context, contentType models.ContentType, now time.Time) (int, error)
	EnqueueItem(ctx context.Context, contentType models.ContentType, topic, cluster string) (string, error)
}

// Seeder turns uncovered target queries into queue items, respecting the
// same per-type daily caps the orchestrator enforces so the queue cannot
// accumulate unboundedly.
type Seeder struct {
	store  SeedStore
	logger *Logger
	now    func() time.Time
}

// NewSeeder creates a queue seeder.
func NewSeeder(store SeedStore, logger *Logger) *Seeder {
	return &Seeder{store: store, logger: logger, now: time.Now}
}

// SeedSummary reports what one seeding run enqueued.
type SeedSummary struct {
	Scanned  int
	Enqueued map[models.ContentType]int
	Skipped  int
}

// Total returns the number of items enqueued across all types.
func (s SeedSummary) Total() int {
	var n int
	for _, c := range s.Enqueued {
		n += c
	}
	return n
}

// Run scans uncovered coverage entries, classifies each query's intent to
// pick a content type, and enqueues work up to each type's remaining daily
// headroom (cap minus completed today minus already pending).
func (s *Seeder) Run(ctx context.Context) (SeedSummary, error) {
	summary := SeedSummary{Enqueued: make(map[models.ContentType]int)}

	uncovered, err := s.store.ListUncovered(ctx, seedScanLimit)
	if err != nil {
		return summary, fmt.Errorf("seed: list uncovered: %w", err)
	}
	summary.Scanned = len(uncovered)
	if len(uncovered) == 0 {
		s.logger.Info(ctx, models.PhaseFetchQueue, "", "seed: no uncovered queries", nil)
		return summary, nil
	}

	pending, err := s.store.PendingCountByType(ctx)
	if err != nil {
		return summary, fmt.Errorf("seed: pending counts: %w", err)
	}

	// Remaining headroom per type, computed once per run. A concurrent run
	// could overshoot by one batch; caps are re-checked at claim time.
	headroom := make(map[models.ContentType]int)
	for _, t := range models.AllContentTypes {
		done, err := s.store.CompletedToday(ctx, t, s.now())
		if err != nil {
			return summary, fmt.Errorf("seed: completed count for %s: %w", t, err)
		}
		h := guard.CapFor(t) - done - pending[t]
		if h < 0 {
			h = 0
		}
		headroom[t] = h
	}

	for _, entry := range uncovered {
		intent, contentType := ClassifyIntent(entry.Query)
		if headroom[contentType] <= 0 {
			summary.Skipped++
			continue
		}

		if _, err := s.store.EnqueueItem(ctx, contentType, entry.Query, entry.Cluster); err != nil {
			s.logger.Error(ctx, models.PhaseFetchQueue, contentType, "seed: enqueue failed",
				map[string]any{"query": entry.Query, "error": err.Error()})
			continue
		}
		headroom[contentType]--
		summary.Enqueued[contentType]++
		s.logger.Info(ctx, models.PhaseFetchQueue, contentType, "seed: enqueued",
			map[string]any{"query": entry.Query, "cluster": entry.Cluster, "intent": intent})
	}

	s.logger.Info(ctx, models.PhaseFetchQueue, "", "seed: run complete",
		map[string]any{"scanned": summary.Scanned, "enqueued": summary.Total(), "skipped": summary.Skipped})
	return summary, nil
}
