// Package cost projects the USD cost of generation calls before they happen.
// Estimates gate attempts against the daily budget; the ledger records actual
// cost when the API response carries token counts.
package cost

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// Rates holds per-token pricing in USD per 1K tokens.
type Rates struct {
	InputPer1K  float64
	OutputPer1K float64
}

// DefaultRates approximates current small-model pricing. Tunable, not exact;
// the estimate only needs to be a safe upper bound for the budget gate.
var DefaultRates = Rates{
	InputPer1K:  0.00015,
	OutputPer1K: 0.0006,
}

// tokenProfile is the projected prompt and completion size for one type.
type tokenProfile struct {
	prompt     int
	completion int
}

// profiles scales with how much prose each type asks the model for.
var profiles = map[models.ContentType]tokenProfile{
	models.TypeBlog:          {prompt: 900, completion: 2400},
	models.TypeFAQ:           {prompt: 400, completion: 500},
	models.TypeGlossary:      {prompt: 350, completion: 400},
	models.TypeComparison:    {prompt: 700, completion: 1600},
	models.TypeExpertQA:      {prompt: 500, completion: 900},
	models.TypeNews:          {prompt: 450, completion: 600},
	models.TypeCaseStudy:     {prompt: 800, completion: 1800},
	models.TypeIndustryBrief: {prompt: 700, completion: 1400},
	models.TypeVideo:         {prompt: 600, completion: 1200},
	models.TypeTool:          {prompt: 500, completion: 700},
}

// Estimator projects call costs from the per-type token profiles.
type Estimator struct {
	rates Rates
}

// NewEstimator creates an estimator with the given rates.
func NewEstimator(rates Rates) *Estimator {
	return &Estimator{rates: rates}
}

// EstimateContentCost projects the USD cost of generating one item of a type.
// Unknown types get the most expensive profile so the gate stays safe.
func (e *Estimator) EstimateContentCost(t models.ContentType) float64 {
	p, ok := profiles[t]
	if !ok {
		p = profiles[models.TypeBlog]
	}
	return float64(p.prompt)/1000*e.rates.InputPer1K +
		float64(p.completion)/1000*e.rates.OutputPer1K
}

// ActualCost converts token counts from an API response into USD.
func (e *Estimator) ActualCost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*e.rates.InputPer1K +
		float64(outputTokens)/1000*e.rates.OutputPer1K
}

// EstimateRunCost sums the projected cost of every item in a queue snapshot.
func (e *Estimator) EstimateRunCost(items []models.QueueItem) float64 {
	var total float64
	for _, item := range items {
		total += e.EstimateContentCost(item.ContentType)
	}
	return total
}

// FormatBreakdown renders per-type spend totals for the CLI. Presentation
// only, no gating logic.
func FormatBreakdown(byType map[models.ContentType]float64) string {
	types := make([]models.ContentType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var b strings.Builder
	var total float64
	for _, t := range types {
		fmt.Fprintf(&b, "  %-15s $%.4f\n", t, byType[t])
		total += byType[t]
	}
	fmt.Fprintf(&b, "  %-15s $%.4f\n", "total", total)
	return b.String()
}
