package pipeline

import (
	"context"
	"testing"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/strategy"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query  string
		intent string
		typ    models.ContentType
	}{
		{"how to market HR software to enterprise buyers", IntentQuestion, models.TypeFAQ},
		{"why is our demand gen not converting", IntentQuestion, models.TypeFAQ},
		{"what is account based marketing", IntentDefinition, models.TypeGlossary},
		{"definition of demand generation", IntentDefinition, models.TypeGlossary},
		{"in-house marketing vs agency", IntentComparison, models.TypeComparison},
		{"hubspot versus marketo for b2b", IntentComparison, models.TypeComparison},
		{"demand generation", IntentTerm, models.TypeGlossary},
		{"positioning strategy for workforce tech companies", IntentTopic, models.TypeBlog},
		{"should we hire a fractional cmo?", IntentQuestion, models.TypeFAQ},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			intent, typ := ClassifyIntent(tt.query)
			if intent != tt.intent || typ != tt.typ {
				t.Errorf("ClassifyIntent(%q) = (%s, %s), want (%s, %s)",
					tt.query, intent, typ, tt.intent, tt.typ)
			}
		})
	}
}

func coverageEntry(query, cluster string) models.CoverageEntry {
	return models.CoverageEntry{Query: query, Cluster: cluster}
}

func TestSeederRun(t *testing.T) {
	store := newFakeStore()
	store.uncovered = []models.CoverageEntry{
		coverageEntry("how to market HR software to enterprise buyers", "hr-tech"),
		coverageEntry("what is account based marketing", "demand-gen"),
		coverageEntry("positioning strategy for workforce tech companies", "founders"),
	}

	s := NewSeeder(store, testLogger(store))
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Scanned != 3 || summary.Total() != 3 {
		t.Errorf("summary = %+v, want 3 scanned and 3 enqueued", summary)
	}
	if summary.Enqueued[models.TypeFAQ] != 1 || summary.Enqueued[models.TypeGlossary] != 1 || summary.Enqueued[models.TypeBlog] != 1 {
		t.Errorf("enqueued by type = %v", summary.Enqueued)
	}
	if len(store.queue) != 3 {
		t.Fatalf("queue length = %d, want 3", len(store.queue))
	}
	if store.queue[0].Cluster != "hr-tech" {
		t.Errorf("cluster not carried onto queue item: %+v", store.queue[0])
	}
}

func TestSeederRespectsCaps(t *testing.T) {
	store := newFakeStore()
	// Blog cap is 1: one already completed today, so blog queries get no
	// headroom at all.
	store.completed[models.TypeBlog] = 1
	store.uncovered = []models.CoverageEntry{
		coverageEntry("positioning strategy for workforce tech companies", "founders"),
		coverageEntry("category design playbook for vertical saas companies", "founders"),
	}

	s := NewSeeder(store, testLogger(store))
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Total() != 0 || summary.Skipped != 2 {
		t.Errorf("summary = %+v, want everything skipped", summary)
	}
	if len(store.queue) != 0 {
		t.Errorf("queue length = %d, want 0", len(store.queue))
	}
}

func TestSeederCountsPendingAgainstHeadroom(t *testing.T) {
	store := newFakeStore()
	// FAQ cap is 5 with 3 already pending and 1 completed: headroom 1.
	store.pending[models.TypeFAQ] = 3
	store.completed[models.TypeFAQ] = 1
	store.uncovered = []models.CoverageEntry{
		coverageEntry("how to measure marketing sourced pipeline", "ops"),
		coverageEntry("how to brief a b2b marketing agency", "ops"),
	}

	s := NewSeeder(store, testLogger(store))
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Enqueued[models.TypeFAQ] != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 enqueued and 1 skipped", summary)
	}
}

func TestSeederEmptyCoverage(t *testing.T) {
	store := newFakeStore()
	s := NewSeeder(store, testLogger(store))
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Scanned != 0 || summary.Total() != 0 {
		t.Errorf("summary = %+v, want empty run", summary)
	}
}

func TestCoverageSyncRun(t *testing.T) {
	store := newFakeStore()
	strat, err := strategy.Parse([]byte(`
segments:
  - name: hr-tech
    pain_points:
      - how to market HR software to enterprise buyers
    hiring_criteria:
      - what to look for in a b2b marketing agency
  - name: founders
    obstacles:
      - marketing budget cut what to prioritize
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	c := NewCoverageSyncer(store, testLogger(store))
	summary, err := c.Run(context.Background(), strat)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Queries != 3 || summary.Upserted != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 3 upserted", summary)
	}
	if len(store.upserts) != 3 {
		t.Fatalf("upserts = %v", store.upserts)
	}
	// Intent metadata rides along with each upsert.
	if store.upserts[0] != "hr-tech|how to market HR software to enterprise buyers|"+IntentQuestion {
		t.Errorf("first upsert = %q", store.upserts[0])
	}
}

func TestCoverageSyncEmptyStrategy(t *testing.T) {
	store := newFakeStore()
	c := NewCoverageSyncer(store, testLogger(store))
	strat := &strategy.Strategy{Segments: []strategy.Segment{{Name: "empty"}}}
	if _, err := c.Run(context.Background(), strat); err == nil {
		t.Error("expected error when the strategy yields no queries")
	}
}
