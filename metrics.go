package seaswap

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"

	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "seaswap"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of finished submissions, labelled by outcome.
	Submissions metrics.Counter

	// Time from submission to fulfillment dispatch.
	SubmissionDuration metrics.Histogram

	// Phase of the running submission.
	Phase metrics.Gauge

	// Number of order records the record store did not accept.
	PersistenceFailures metrics.Counter
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		Submissions: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "submissions",
			Help:      "Number of finished submissions by outcome.",
		}, append(labels, "outcome")).With(labelsAndValues...),
		SubmissionDuration: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "submission_duration_seconds",
			Help:      "Time from submission to fulfillment dispatch.",
			Buckets:   stdprometheus.ExponentialBucketsRange(0.5, 600, 10),
		}, labels).With(labelsAndValues...),
		Phase: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "phase",
			Help:      "Phase of the running submission.",
		}, labels).With(labelsAndValues...),
		PersistenceFailures: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "persistence_failures",
			Help:      "Number of order records the record store did not accept.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Submissions:         discard.NewCounter(),
		SubmissionDuration:  discard.NewHistogram(),
		Phase:               discard.NewGauge(),
		PersistenceFailures: discard.NewCounter(),
	}
}
