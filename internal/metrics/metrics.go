package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the responsibility engine.
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal *prometheus.CounterVec
	ResolutionErrors *prometheus.CounterVec

	// Negotiation metrics
	NegotiationIterations prometheus.Histogram
	NegotiationOutcomes   *prometheus.CounterVec

	// Indemnification metrics
	IndemnificationsTotal prometheus.Counter
	IndemnityNetAmount    *prometheus.HistogramVec
}

// New creates and registers all engine metrics on the default registry.
// Call once per process; promauto panics on duplicate registration.
func New() *Metrics {
	return &Metrics{
		ResolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_resolutions_total",
				Help: "Total liability resolutions, by method and outcome kind",
			},
			[]string{"method", "outcome"}, // method: matrix, negotiation
		),

		ResolutionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_resolution_errors_total",
				Help: "Total failed engine calls, by operation",
			},
			[]string{"operation"},
		),

		NegotiationIterations: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "engine_negotiation_iterations",
				Help:    "Blend rounds used per negotiation (budget: 5)",
				Buckets: []float64{1, 2, 3, 4, 5},
			},
		),

		NegotiationOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_negotiation_outcomes_total",
				Help: "Negotiation completions, by convergence result",
			},
			[]string{"converged"}, // true, false
		),

		IndemnificationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_indemnifications_total",
				Help: "Total settlement calculations performed",
			},
		),

		IndemnityNetAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_indemnity_net_amount",
				Help:    "Net payable per settlement direction (COP)",
				Buckets: prometheus.ExponentialBuckets(10_000, 10, 7), // 10k .. 10B
			},
			[]string{"payer"},
		),
	}
}
