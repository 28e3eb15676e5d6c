// Package metrics exposes Prometheus instruments for pipeline runs.
// A nil *Metrics is valid and records nothing.
//
// The CLI is a batch job, so metrics are flushed to a node-exporter
// textfile instead of being served over HTTP.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "support"

// Metrics holds the pipeline instruments on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	inquiries          *prometheus.CounterVec
	evaluationFailures prometheus.Counter
	completionDuration prometheus.Histogram
	promptTokens       prometheus.Histogram
	stageDuration      *prometheus.HistogramVec
}

// New creates and registers the pipeline instruments.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inquiries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inquiries_total",
			Help:      "Completed inquiry runs by decision.",
		}, []string{"decision"}),
		evaluationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_failures_total",
			Help:      "Evaluations that failed closed because the completion call errored.",
		}),
		completionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of policy completion calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		promptTokens: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_tokens",
			Help:      "Estimated prompt tokens per policy completion.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.inquiries,
		m.evaluationFailures,
		m.completionDuration,
		m.promptTokens,
		m.stageDuration,
	)

	return m
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveInquiry counts a completed run.
func (m *Metrics) ObserveInquiry(approved bool) {
	if m == nil {
		return
	}
	decision := "denied"
	if approved {
		decision = "approved"
	}
	m.inquiries.WithLabelValues(decision).Inc()
}

// ObserveCompletion records one policy completion call.
func (m *Metrics) ObserveCompletion(latency time.Duration, promptTokens int, failed bool) {
	if m == nil {
		return
	}
	m.completionDuration.Observe(latency.Seconds())
	m.promptTokens.Observe(float64(promptTokens))
	if failed {
		m.evaluationFailures.Inc()
	}
}

// ObserveStage records the duration of one stage execution.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextfile writes the current values in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
