// Package guard enforces the pipeline's policy gates: pre-flight checks,
// per-type daily caps, the daily budget ceiling, and post-generation quality
// heuristics. All checks are deterministic and make no external API calls.
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/classify"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// DailyCaps is the per-type ceiling on items completed per day. Blog is the
// flagship format and intentionally scarce; FAQ and glossary entries are
// cheap and can run in small batches.
var DailyCaps = map[models.ContentType]int{
	models.TypeBlog:          1,
	models.TypeFAQ:           5,
	models.TypeGlossary:      3,
	models.TypeComparison:    2,
	models.TypeExpertQA:      2,
	models.TypeNews:          2,
	models.TypeCaseStudy:     1,
	models.TypeIndustryBrief: 1,
	models.TypeVideo:         1,
	models.TypeTool:          1,
}

// CapFor returns the daily cap for a type. Unknown types get zero: nothing
// is generated for a type the policy table doesn't know.
func CapFor(t models.ContentType) int {
	return DailyCaps[t]
}

// Store is the persistence surface the guardrails read. All methods are
// read-only.
type Store interface {
	SpendForDay(ctx context.Context, day string) (float64, error)
	CompletedToday(ctx context.Context, contentType models.ContentType, now time.Time) (int, error)
	PublishedTitles(ctx context.Context, contentType models.ContentType) ([]string, error)
}

// BreakerStatus exposes the read-only breaker check used in pre-flight.
type BreakerStatus interface {
	Status(ctx context.Context) (*models.BreakerState, error)
}

// Config tunes the guardrail thresholds.
type Config struct {
	DailyBudgetUSD  float64
	BrandVoiceMin   int
	TitleSimilarity float64
	// ConfigReady reports whether required generation config is present.
	ConfigReady bool
}

// Guard evaluates policy gates against the persisted state.
type Guard struct {
	cfg     Config
	store   Store
	breaker BreakerStatus
	now     func() time.Time
}

// New creates a Guard.
func New(cfg Config, store Store, breaker BreakerStatus) *Guard {
	if cfg.TitleSimilarity <= 0 {
		cfg.TitleSimilarity = 0.8
	}
	if cfg.BrandVoiceMin <= 0 {
		cfg.BrandVoiceMin = 60
	}
	return &Guard{cfg: cfg, store: store, breaker: breaker, now: time.Now}
}

// Decision is the outcome of a policy gate.
type Decision struct {
	Proceed bool
	Reason  classify.Kind
	Detail  string
}

func proceed() Decision { return Decision{Proceed: true} }

func block(reason classify.Kind, detail string) Decision {
	return Decision{Proceed: false, Reason: reason, Detail: detail}
}

// PreFlight runs the run-level gates in order: breaker not open, config
// present, budget not exhausted. Read-only; a block aborts the whole run.
func (g *Guard) PreFlight(ctx context.Context) (Decision, error) {
	state, err := g.breaker.Status(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("pre-flight breaker status: %w", err)
	}
	if state.State == models.BreakerOpen {
		if state.CooldownUntil == nil || g.now().Before(*state.CooldownUntil) {
			return block(classify.KindDependencyDown, "circuit breaker open for generation API"), nil
		}
		// Cool-down elapsed; the per-item CanAttempt will negotiate the probe
	}

	if !g.cfg.ConfigReady {
		return block(classify.KindUnknown, "generation credentials missing"), nil
	}

	spent, err := g.store.SpendForDay(ctx, models.DayKey(g.now()))
	if err != nil {
		return Decision{}, fmt.Errorf("pre-flight spend: %w", err)
	}
	if spent >= g.cfg.DailyBudgetUSD {
		return block(classify.KindBudgetExceeded,
			fmt.Sprintf("daily budget exhausted: $%.4f of $%.2f", spent, g.cfg.DailyBudgetUSD)), nil
	}

	return proceed(), nil
}

// CheckCap verifies the per-type daily cap has headroom. Run immediately
// before each claim, not once per run, so overlapping invocations overshoot
// by at most the one in-flight item.
func (g *Guard) CheckCap(ctx context.Context, t models.ContentType) (Decision, error) {
	cap := CapFor(t)
	if cap <= 0 {
		return block(classify.KindCapExceeded, fmt.Sprintf("no daily cap configured for %s", t)), nil
	}

	done, err := g.store.CompletedToday(ctx, t, g.now())
	if err != nil {
		return Decision{}, fmt.Errorf("check cap: %w", err)
	}
	if done >= cap {
		return block(classify.KindCapExceeded,
			fmt.Sprintf("%s cap reached: %d of %d today", t, done, cap)), nil
	}
	return proceed(), nil
}

// CheckBudget verifies one more attempt at the estimated cost stays under the
// daily ceiling.
func (g *Guard) CheckBudget(ctx context.Context, estimated float64) (Decision, error) {
	spent, err := g.store.SpendForDay(ctx, models.DayKey(g.now()))
	if err != nil {
		return Decision{}, fmt.Errorf("check budget: %w", err)
	}
	if spent+estimated > g.cfg.DailyBudgetUSD {
		return block(classify.KindBudgetExceeded,
			fmt.Sprintf("attempt would exceed budget: $%.4f + $%.4f > $%.2f",
				spent, estimated, g.cfg.DailyBudgetUSD)), nil
	}
	return proceed(), nil
}

// PostGeneration runs the quality heuristics on a document that already
// passed schema validation: brand-voice score first, then duplicate-title
// screening against published titles of the same type. Rejection is terminal
// for the item.
func (g *Guard) PostGeneration(ctx context.Context, doc *models.Document) (Decision, error) {
	score := BrandVoiceScore(doc)
	if score < g.cfg.BrandVoiceMin {
		return block(classify.KindBrandVoiceLow,
			fmt.Sprintf("brand voice score %d below minimum %d", score, g.cfg.BrandVoiceMin)), nil
	}

	existing, err := g.store.PublishedTitles(ctx, doc.Type)
	if err != nil {
		return Decision{}, fmt.Errorf("post-generation titles: %w", err)
	}
	for _, title := range existing {
		if sim := TitleSimilarity(doc.Title, title); sim >= g.cfg.TitleSimilarity {
			return block(classify.KindDuplicateTitle,
				fmt.Sprintf("title %.0f%% similar to existing %q", sim*100, title)), nil
		}
	}

	return proceed(), nil
}
