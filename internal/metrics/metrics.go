// Package metrics collects and exposes Prometheus metrics for the pipeline
// and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records all pipeline and HTTP metrics.
type Collector struct {
	registry *prometheus.Registry

	runs       *prometheus.CounterVec
	items      *prometheus.CounterVec
	genLatency prometheus.Histogram
	genCost    prometheus.Counter
	beacons    *prometheus.CounterVec
	httpStatus *prometheus.CounterVec
}

// Item outcome labels.
const (
	ItemCompleted      = "completed"
	ItemFailed         = "failed"
	ItemSkippedCap     = "skipped_cap"
	ItemSkippedBudget  = "skipped_budget"
	ItemSkippedBreaker = "skipped_breaker"
)

// Beacon outcome labels.
const (
	BeaconAccepted  = "accepted"
	BeaconDropped   = "dropped"
	BeaconDiscarded = "discarded"
)

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "starsite_pipeline_runs_total",
			Help: "Pipeline runs by job and outcome.",
		}, []string{"job", "outcome"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "starsite_pipeline_items_total",
			Help: "Queue items processed by outcome.",
		}, []string{"outcome"}),
		genLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "starsite_generation_latency_seconds",
			Help:    "Latency of generation API calls.",
			Buckets: prometheus.DefBuckets,
		}),
		genCost: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "starsite_generation_cost_usd_total",
			Help: "Cumulative recorded generation cost in USD.",
		}),
		beacons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "starsite_beacons_total",
			Help: "Tracking beacons by ingestion outcome.",
		}, []string{"outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "starsite_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	c.registry.MustRegister(c.runs, c.items, c.genLatency, c.genCost, c.beacons, c.httpStatus)
	return c
}

// RecordRun records one cron job run and its outcome.
func (c *Collector) RecordRun(job, outcome string) {
	c.runs.WithLabelValues(job, outcome).Inc()
}

// RecordItems adds n items with the given outcome label.
func (c *Collector) RecordItems(outcome string, n int) {
	if n > 0 {
		c.items.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordGenerationLatency records one generation API call duration.
func (c *Collector) RecordGenerationLatency(d time.Duration) {
	c.genLatency.Observe(d.Seconds())
}

// RecordCost adds recorded spend in USD.
func (c *Collector) RecordCost(usd float64) {
	if usd > 0 {
		c.genCost.Add(usd)
	}
}

// RecordBeacon records one tracking beacon outcome.
func (c *Collector) RecordBeacon(outcome string) {
	c.beacons.WithLabelValues(outcome).Inc()
}

// RecordHTTPStatus records one HTTP response status.
func (c *Collector) RecordHTTPStatus(code int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(code)).Inc()
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
