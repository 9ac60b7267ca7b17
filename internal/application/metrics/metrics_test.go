package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementSubmission(OutcomeAccepted)
	m.IncrementSubmission(OutcomeAccepted)
	m.IncrementSubmission(OutcomeInvalid)
	m.IncrementViolation("email", "invalid")
	m.IncrementExport("ok")
	m.ObserveListing(3*time.Millisecond, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations.WithLabelValues("email", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ListingLatency))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementSubmission(OutcomeAccepted)
		m.IncrementViolation("email", "invalid")
		m.ObserveListing(time.Second, 1)
		m.IncrementExport("ok")
	})
}
