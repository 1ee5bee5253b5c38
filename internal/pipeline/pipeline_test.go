package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/db"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/llm"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// fakeStore is an in-memory stand-in for the document store, implementing
// every persistence interface the pipeline consumes. Claim and breaker-trial
// operations keep the same conditional semantics as the real store.
type fakeStore struct {
	mu sync.Mutex

	queue     []models.QueueItem
	spend     float64
	ledger    []models.LedgerEntry
	completed map[models.ContentType]int
	titles    map[models.ContentType][]string
	breaker   *models.BreakerState
	inserted  []models.Document
	insertErr error
	covered   map[string]string
	events    []models.PipelineEvent
	uncovered []models.CoverageEntry
	pending   map[models.ContentType]int
	upserts   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		completed: make(map[models.ContentType]int),
		titles:    make(map[models.ContentType][]string),
		covered:   make(map[string]string),
		pending:   make(map[models.ContentType]int),
	}
}

func queueItem(id string, t models.ContentType, topic, cluster string, created time.Time) models.QueueItem {
	return models.QueueItem{
		ID:          surrealmodels.NewRecordID("queue_item", id),
		ContentType: t,
		Status:      models.QueueStatusPending,
		Topic:       topic,
		Cluster:     cluster,
		Created:     created,
	}
}

func (f *fakeStore) item(id string) *models.QueueItem {
	for i := range f.queue {
		s, _ := models.RecordIDString(f.queue[i].ID)
		if s == id {
			return &f.queue[i]
		}
	}
	return nil
}

// guard.Store

func (f *fakeStore) SpendForDay(ctx context.Context, day string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spend, nil
}

func (f *fakeStore) CompletedToday(ctx context.Context, t models.ContentType, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed[t], nil
}

func (f *fakeStore) PublishedTitles(ctx context.Context, t models.ContentType) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.titles[t], nil
}

// breaker.Store

func (f *fakeStore) LoadBreakerState(ctx context.Context, dependency string) (*models.BreakerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.breaker == nil {
		f.breaker = &models.BreakerState{Dependency: dependency, State: models.BreakerClosed}
	}
	s := *f.breaker
	return &s, nil
}

func (f *fakeStore) SaveBreakerState(ctx context.Context, state *models.BreakerState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *state
	f.breaker = &s
	return nil
}

func (f *fakeStore) ClaimBreakerTrial(ctx context.Context, dependency string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.breaker != nil && f.breaker.State == models.BreakerHalfOpen && !f.breaker.TrialPending {
		f.breaker.TrialPending = true
		return true, nil
	}
	return false, nil
}

// RunStore

func (f *fakeStore) NextPendingItems(ctx context.Context, limit, maxAttempts int) ([]models.QueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.QueueItem
	for _, it := range f.queue {
		if it.Status == models.QueueStatusPending && it.Attempts < maxAttempts {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ClaimItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.item(id)
	if it == nil || it.Status != models.QueueStatusPending {
		return db.ErrAlreadyClaimed
	}
	it.Status = models.QueueStatusProcessing
	it.Attempts++
	now := time.Now()
	it.LastAttempt = &now
	return nil
}

func (f *fakeStore) ReleaseItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it := f.item(id); it != nil && it.Status == models.QueueStatusProcessing {
		it.Status = models.QueueStatusPending
	}
	return nil
}

func (f *fakeStore) CompleteItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it := f.item(id); it != nil {
		it.Status = models.QueueStatusCompleted
		f.completed[it.ContentType]++
	}
	return nil
}

func (f *fakeStore) FailItem(ctx context.Context, id, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it := f.item(id); it != nil {
		it.Status = models.QueueStatusFailed
		it.FailReason = &reason
	}
	return nil
}

func (f *fakeStore) InsertContent(ctx context.Context, doc *models.Document) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, *doc)
	f.titles[doc.Type] = append(f.titles[doc.Type], doc.Title)
	return "content-" + doc.Slug, nil
}

func (f *fakeStore) MarkCovered(ctx context.Context, cluster, query, contentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.covered[cluster+"|"+query] = contentID
	return nil
}

func (f *fakeStore) RecordSpend(ctx context.Context, day string, t models.ContentType, estimated float64, actual *float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := models.LedgerEntry{Day: day, ContentType: t, EstimatedCost: estimated, ActualCost: actual}
	f.ledger = append(f.ledger, entry)
	if actual != nil {
		f.spend += *actual
	} else {
		f.spend += estimated
	}
	return nil
}

// SeedStore

func (f *fakeStore) ListUncovered(ctx context.Context, limit int) ([]models.CoverageEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.uncovered) > limit {
		return f.uncovered[:limit], nil
	}
	return f.uncovered, nil
}

func (f *fakeStore) PendingCountByType(ctx context.Context) (map[models.ContentType]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[models.ContentType]int, len(f.pending))
	for k, v := range f.pending {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) EnqueueItem(ctx context.Context, t models.ContentType, topic, cluster string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := topic
	f.queue = append(f.queue, queueItem(id, t, topic, cluster, time.Now()))
	return id, nil
}

// CoverageStore

func (f *fakeStore) UpsertCoverage(ctx context.Context, query, cluster, intent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, cluster+"|"+query+"|"+intent)
	return nil
}

// EventStore

func (f *fakeStore) AppendEvent(ctx context.Context, ev models.PipelineEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

// fakeGenerator replays a scripted sequence of generation outcomes.
type fakeGenerator struct {
	mu      sync.Mutex
	results []genResult
	calls   int
}

type genResult struct {
	doc   *models.Document
	usage llm.Usage
	err   error
}

func (g *fakeGenerator) GenerateDocument(ctx context.Context, item *models.QueueItem) (*models.Document, llm.Usage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls >= len(g.results) {
		return nil, llm.Usage{}, context.DeadlineExceeded
	}
	r := g.results[g.calls]
	g.calls++
	return r.doc, r.usage, r.err
}

func testLogger(events EventStore) *Logger {
	return NewLogger(slog.New(slog.DiscardHandler), events)
}

func faqDocument(title, answer string) *models.Document {
	return &models.Document{
		Type:  models.TypeFAQ,
		Title: title,
		Slug:  models.Slugify(title),
		FAQ: &models.FAQPayload{
			Question: title,
			Answer:   answer,
		},
	}
}
