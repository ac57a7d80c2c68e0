// Package telemetry provides prometheus metrics and otel tracing for
// the relation engine.
//
// Metrics live on an explicit registry so tests can construct isolated
// instances; the HTTP layer mounts the registry's handler at /metrics.
// Tracing uses the otel API only: with no SDK installed the tracer is
// a no-op, and an embedding process can install its own provider.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for engine spans.
const TracerName = "github.com/orreryworks/orrery"

// Metrics holds the engine's prometheus instruments.
type Metrics struct {
	registry *prometheus.Registry

	// SimilarityComputations counts pairwise score computations
	SimilarityComputations prometheus.Counter

	// FeedbackEvents counts applied feedback, labeled by signal
	FeedbackEvents *prometheus.CounterVec

	// GraphRebuilds counts full adjacency rebuilds
	GraphRebuilds prometheus.Counter

	// TrainingRuns counts embedding training attempts, labeled by outcome
	// (trained, skipped, failed)
	TrainingRuns *prometheus.CounterVec

	// MatrixBuildSeconds observes full pairwise build durations
	MatrixBuildSeconds prometheus.Histogram
}

// NewMetrics creates a metrics set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		SimilarityComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_similarity_computations_total",
			Help: "Number of pairwise similarity computations.",
		}),
		FeedbackEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orrery_feedback_events_total",
			Help: "Number of applied feedback events by signal.",
		}, []string{"signal"}),
		GraphRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_graph_rebuilds_total",
			Help: "Number of full connection graph rebuilds.",
		}),
		TrainingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orrery_training_runs_total",
			Help: "Number of embedding training runs by outcome.",
		}, []string{"outcome"}),
		MatrixBuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_matrix_build_seconds",
			Help:    "Duration of full similarity matrix builds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.SimilarityComputations,
		m.FeedbackEvents,
		m.GraphRebuilds,
		m.TrainingRuns,
		m.MatrixBuildSeconds,
	)
	return m
}

// Handler returns the HTTP handler exposing this metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Tracer returns the engine tracer from the globally installed provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
