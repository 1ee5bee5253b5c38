package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/breaker"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/classify"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/content"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/cost"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/db"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/guard"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/llm"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// GenerationDependency names the external generation API for the circuit
// breaker and its persisted state.
const GenerationDependency = "generation_api"

// Generator is the outbound generation API boundary.
type Generator interface {
	GenerateDocument(ctx context.Context, item *models.QueueItem) (*models.Document, llm.Usage, error)
}

// RunStore is the persistence surface of the generation orchestrator.
type RunStore interface {
	NextPendingItems(ctx context.Context, limit, maxAttempts int) ([]models.QueueItem, error)
	ClaimItem(ctx context.Context, id string) error
	ReleaseItem(ctx context.Context, id string) error
	CompleteItem(ctx context.Context, id string) error
	FailItem(ctx context.Context, id, reason string) error
	InsertContent(ctx context.Context, doc *models.Document) (string, error)
	MarkCovered(ctx context.Context, cluster, query, contentID string) error
	RecordSpend(ctx context.Context, day string, contentType models.ContentType, estimated float64, actual *float64) error
}

// OrchestratorConfig tunes one generation run.
type OrchestratorConfig struct {
	MaxBatchSize    int
	MaxAttempts     int
	RunDeadline     time.Duration
	GenerateTimeout time.Duration
}

// Orchestrator is the daily generation job: pre-flight, claim, generate,
// validate, quality-check, persist, all under a wall-clock budget.
type Orchestrator struct {
	cfg       OrchestratorConfig
	store     RunStore
	guard     *guard.Guard
	breaker   *breaker.Breaker
	generator Generator
	estimator *cost.Estimator
	logger    *Logger
	now       func() time.Time
}

// NewOrchestrator wires a generation run.
func NewOrchestrator(cfg OrchestratorConfig, store RunStore, g *guard.Guard, b *breaker.Breaker, gen Generator, est *cost.Estimator, logger *Logger) *Orchestrator {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RunDeadline <= 0 {
		cfg.RunDeadline = 4 * time.Minute
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 90 * time.Second
	}
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		guard:     g,
		breaker:   b,
		generator: gen,
		estimator: est,
		logger:    logger,
		now:       time.Now,
	}
}

// RunSummary reports the outcome of one generation run.
type RunSummary struct {
	Blocked        bool
	BlockReason    classify.Kind
	Attempted      int
	Completed      int
	Failed         int
	SkippedCap     int
	SkippedBudget  int
	SkippedBreaker int
	// ProjectedCost is the estimated cost of the fetched batch before any
	// item runs; TotalCost is what the run actually spent.
	ProjectedCost float64
	TotalCost     float64
}

// Run executes one generation pass. Per-item failures are classified, logged,
// and isolated; only a pre-flight block or a panic ends the run early, and
// items completed before either stay committed. Run itself returns an error
// only when the queue cannot be read at all.
func (o *Orchestrator) Run(ctx context.Context) (summary RunSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error(ctx, models.PhaseGenerate, "", "run aborted by unexpected panic",
				map[string]any{"error_kind": string(classify.KindUnknown), "panic": fmt.Sprint(r), "completed": summary.Completed})
			err = fmt.Errorf("generation run panicked: %v", r)
		}
	}()

	dec, err := o.guard.PreFlight(ctx)
	if err != nil {
		return summary, fmt.Errorf("pre-flight: %w", err)
	}
	if !dec.Proceed {
		summary.Blocked = true
		summary.BlockReason = dec.Reason
		o.logger.Warn(ctx, models.PhaseFetchQueue, "", "run blocked by pre-flight",
			map[string]any{"reason": string(dec.Reason), "detail": dec.Detail})
		return summary, nil
	}

	items, err := o.store.NextPendingItems(ctx, o.cfg.MaxBatchSize, o.cfg.MaxAttempts)
	if err != nil {
		return summary, fmt.Errorf("fetch queue: %w", err)
	}
	if len(items) == 0 {
		o.logger.Info(ctx, models.PhaseFetchQueue, "", "queue empty, nothing to generate", nil)
		return summary, nil
	}

	summary.ProjectedCost = o.estimator.EstimateRunCost(items)
	o.logger.Info(ctx, models.PhaseFetchQueue, "", "fetched batch", map[string]any{
		"items":          len(items),
		"projected_cost": summary.ProjectedCost,
	})

	deadline := o.now().Add(o.cfg.RunDeadline)
	for i := range items {
		if !o.now().Before(deadline) {
			o.logger.Warn(ctx, models.PhaseFetchQueue, "", "run deadline reached, stopping before new claims",
				map[string]any{"remaining": len(items) - i})
			break
		}
		o.processItem(ctx, &items[i], &summary)
	}

	o.logger.Info(ctx, models.PhasePersist, "", "run summary", map[string]any{
		"attempted":       summary.Attempted,
		"completed":       summary.Completed,
		"failed":          summary.Failed,
		"skipped_cap":     summary.SkippedCap,
		"skipped_budget":  summary.SkippedBudget,
		"skipped_breaker": summary.SkippedBreaker,
		"total_cost":      summary.TotalCost,
	})
	return summary, nil
}

// processItem runs the full per-item pipeline. Every failure path marks the
// item and returns; nothing escapes to the run loop.
func (o *Orchestrator) processItem(ctx context.Context, item *models.QueueItem, summary *RunSummary) {
	id, err := models.RecordIDString(item.ID)
	if err != nil {
		o.logger.Error(ctx, models.PhaseFetchQueue, item.ContentType, "skipping item with malformed id",
			map[string]any{"error": err.Error()})
		return
	}
	meta := func(extra map[string]any) map[string]any {
		m := map[string]any{"item": id, "topic": item.Topic}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}

	// Cap check runs immediately before each claim. At-cap items stay
	// pending for tomorrow.
	capDec, err := o.guard.CheckCap(ctx, item.ContentType)
	if err != nil {
		o.logger.Error(ctx, models.PhaseFetchQueue, item.ContentType, "cap check failed", meta(map[string]any{"error": err.Error()}))
		return
	}
	if !capDec.Proceed {
		summary.SkippedCap++
		o.logger.Info(ctx, models.PhaseFetchQueue, item.ContentType, "skipped: daily cap", meta(map[string]any{"detail": capDec.Detail}))
		return
	}

	estimated := o.estimator.EstimateContentCost(item.ContentType)
	budgetDec, err := o.guard.CheckBudget(ctx, estimated)
	if err != nil {
		o.logger.Error(ctx, models.PhaseGenerate, item.ContentType, "budget check failed", meta(map[string]any{"error": err.Error()}))
		return
	}
	if !budgetDec.Proceed {
		summary.SkippedBudget++
		o.logger.Warn(ctx, models.PhaseGenerate, item.ContentType, "skipped: daily budget", meta(map[string]any{"detail": budgetDec.Detail}))
		return
	}

	if err := o.store.ClaimItem(ctx, id); err != nil {
		if errors.Is(err, db.ErrAlreadyClaimed) {
			o.logger.Info(ctx, models.PhaseFetchQueue, item.ContentType, "item claimed by another run", meta(nil))
			return
		}
		o.logger.Error(ctx, models.PhaseFetchQueue, item.ContentType, "claim failed", meta(map[string]any{"error": err.Error()}))
		return
	}

	// The breaker check runs last, directly before the API call: a consumed
	// half-open trial slot is always resolved by the call that follows. A
	// denied or errored check releases the claim back to pending.
	allowed, err := o.breaker.CanAttempt(ctx)
	if err != nil {
		o.logger.Error(ctx, models.PhaseGenerate, item.ContentType, "breaker check failed", meta(map[string]any{"error": err.Error()}))
		o.releaseItem(ctx, id, item.ContentType)
		return
	}
	if !allowed {
		summary.SkippedBreaker++
		o.logger.Warn(ctx, models.PhaseGenerate, item.ContentType, "skipped: circuit breaker open", meta(nil))
		o.releaseItem(ctx, id, item.ContentType)
		return
	}
	summary.Attempted++

	genCtx, cancel := context.WithTimeout(ctx, o.cfg.GenerateTimeout)
	doc, usage, genErr := o.generator.GenerateDocument(genCtx, item)
	cancel()
	if genErr != nil {
		kind := classify.Classify(genErr)
		// The call happened either way, so the breaker resolves either way: a
		// dependency failure counts against it, anything else (a parse or
		// content problem in an answered call) counts as dependency success.
		if classify.CountsAgainstBreaker(kind) {
			if berr := o.breaker.RecordFailure(ctx); berr != nil {
				o.logger.Error(ctx, models.PhaseGenerate, item.ContentType, "breaker record failure", meta(map[string]any{"error": berr.Error()}))
			}
		} else if berr := o.breaker.RecordSuccess(ctx); berr != nil {
			o.logger.Error(ctx, models.PhaseGenerate, item.ContentType, "breaker record success", meta(map[string]any{"error": berr.Error()}))
		}
		o.failItem(ctx, id, item.ContentType, kind, models.PhaseGenerate, genErr.Error(), summary)
		return
	}
	if berr := o.breaker.RecordSuccess(ctx); berr != nil {
		o.logger.Error(ctx, models.PhaseGenerate, item.ContentType, "breaker record success", meta(map[string]any{"error": berr.Error()}))
	}

	// The API call happened, so its cost is committed regardless of what the
	// quality gates decide. Actual cost is recorded when the provider
	// reported token counts.
	var actual *float64
	if usage.Reported() {
		a := o.estimator.ActualCost(usage.PromptTokens, usage.CompletionTokens)
		actual = &a
		summary.TotalCost += a
	} else {
		summary.TotalCost += estimated
	}
	if err := o.store.RecordSpend(ctx, models.DayKey(o.now()), item.ContentType, estimated, actual); err != nil {
		o.logger.Error(ctx, models.PhasePersist, item.ContentType, "record spend failed", meta(map[string]any{"error": err.Error()}))
	}

	if err := content.Validate(doc); err != nil {
		o.failItem(ctx, id, item.ContentType, classify.KindValidationFailure, models.PhaseValidate, err.Error(), summary)
		return
	}

	qualityDec, err := o.guard.PostGeneration(ctx, doc)
	if err != nil {
		o.logger.Error(ctx, models.PhaseQualityCheck, item.ContentType, "quality check failed", meta(map[string]any{"error": err.Error()}))
		o.failItem(ctx, id, item.ContentType, classify.KindUnknown, models.PhaseQualityCheck, err.Error(), summary)
		return
	}
	if !qualityDec.Proceed {
		o.failItem(ctx, id, item.ContentType, qualityDec.Reason, models.PhaseQualityCheck, qualityDec.Detail, summary)
		return
	}

	publishedAt := o.now()
	doc.Status = models.ContentStatusPublished
	doc.Created = publishedAt
	doc.Published = &publishedAt

	contentID, err := o.store.InsertContent(ctx, doc)
	if err != nil {
		kind := classify.Classify(err)
		if errors.Is(err, db.ErrDuplicateSlug) {
			kind = classify.KindDuplicateTitle
		}
		o.failItem(ctx, id, item.ContentType, kind, models.PhasePersist, err.Error(), summary)
		return
	}

	if err := o.store.CompleteItem(ctx, id); err != nil {
		o.logger.Error(ctx, models.PhasePersist, item.ContentType, "mark completed failed", meta(map[string]any{"error": err.Error()}))
	}
	if item.Cluster != "" {
		if err := o.store.MarkCovered(ctx, item.Cluster, item.Topic, contentID); err != nil {
			o.logger.Error(ctx, models.PhasePersist, item.ContentType, "mark covered failed", meta(map[string]any{"error": err.Error()}))
		}
	}

	summary.Completed++
	successMeta := meta(map[string]any{"content_id": contentID, "title": doc.Title})
	if actual != nil {
		successMeta["cost"] = *actual
	} else {
		successMeta["estimated_cost"] = estimated
	}
	o.logger.Info(ctx, models.PhasePersist, item.ContentType, "content published", successMeta)
}

// releaseItem returns a claimed item to pending, best-effort.
func (o *Orchestrator) releaseItem(ctx context.Context, id string, t models.ContentType) {
	if err := o.store.ReleaseItem(ctx, id); err != nil {
		o.logger.Error(ctx, models.PhaseGenerate, t, "release item failed", map[string]any{"item": id, "error": err.Error()})
	}
}

// failItem marks a queue item failed with its classified reason and counts it
// in the run summary. Marking is best-effort.
func (o *Orchestrator) failItem(ctx context.Context, id string, t models.ContentType, kind classify.Kind, phase, detail string, summary *RunSummary) {
	summary.Failed++
	if err := o.store.FailItem(ctx, id, string(kind)); err != nil {
		o.logger.Error(ctx, phase, t, "mark failed errored", map[string]any{"item": id, "error": err.Error()})
	}
	o.logger.Error(ctx, phase, t, "item failed", map[string]any{
		"item": id, "error_kind": string(kind), "detail": detail,
	})
}
