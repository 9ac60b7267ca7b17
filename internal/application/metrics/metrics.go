package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted      = "accepted"
	OutcomeMalformed     = "malformed"
	OutcomeInvalid       = "invalid"
	OutcomeBusinessRule  = "business_rule"
	OutcomeStorageFailed = "storage_failed"
)

// Metrics provides observability for the application module.
type Metrics struct {
	// Submissions by outcome
	Submissions *prometheus.CounterVec

	// Violations by field and kind, counted once per message
	Violations *prometheus.CounterVec

	// Listing latency including the store read
	ListingLatency prometheus.Histogram

	// Rows returned per listing page
	ListingResults prometheus.Histogram

	// PDF exports by result
	Exports *prometheus.CounterVec
}

// New registers the application metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hirepath_submissions_total",
			Help: "Application submissions by outcome",
		}, []string{"outcome"}),

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hirepath_validation_violations_total",
			Help: "Validation violations by field and kind",
		}, []string{"field", "kind"}),

		ListingLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hirepath_listing_duration_seconds",
			Help:    "Duration of listing queries including the store read",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),

		ListingResults: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hirepath_listing_results",
			Help:    "Number of applications returned per listing page",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		}),

		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hirepath_exports_total",
			Help: "PDF exports by result",
		}, []string{"result"}), // result: "ok", "not_found", "error"
	}
}

// IncrementSubmission records a submission outcome.
func (m *Metrics) IncrementSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

// IncrementViolation records one violation message.
func (m *Metrics) IncrementViolation(field, kind string) {
	if m != nil {
		m.Violations.WithLabelValues(field, kind).Inc()
	}
}

// ObserveListing records a finished listing query.
func (m *Metrics) ObserveListing(d time.Duration, results int) {
	if m != nil {
		m.ListingLatency.Observe(d.Seconds())
		m.ListingResults.Observe(float64(results))
	}
}

// IncrementExport records an export result.
func (m *Metrics) IncrementExport(result string) {
	if m != nil {
		m.Exports.WithLabelValues(result).Inc()
	}
}
