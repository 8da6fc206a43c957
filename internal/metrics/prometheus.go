package metrics

import (
	"strconv"
	"sync"

	"github.com/arloliu/waged/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that a
// collector which is never exercised does not pollute the registry.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	constraintScores  *prometheus.HistogramVec
	rankDuration      prometheus.Histogram
	rankCandidates    prometheus.Counter
	invalidCandidates *prometheus.CounterVec
	snapshotLoads     *prometheus.CounterVec
	snapshotResources *prometheus.GaugeVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "waged" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "waged"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.constraintScores = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "scorer",
			Name:      "constraint_normalized_score",
			Help:      "Distribution of normalized soft constraint scores by constraint.",
			Buckets:   []float64{0, 0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875, 1},
		}, []string{"constraint"})

		p.rankDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "scorer",
			Name:      "rank_duration_seconds",
			Help:      "Latency of ranking candidate nodes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs .. ~0.8s
		})

		p.rankCandidates = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scorer",
			Name:      "candidates_evaluated_total",
			Help:      "Total (node, replica) candidates evaluated.",
		})

		p.invalidCandidates = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scorer",
			Name:      "invalid_candidates_total",
			Help:      "Total candidates rejected as invalid input by kind (node,replica,context).",
		}, []string{"kind"})

		p.snapshotLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "source",
			Name:      "snapshot_loads_total",
			Help:      "Total assignment snapshot loads by snapshot and success.",
		}, []string{"snapshot", "success"})

		p.snapshotResources = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "source",
			Name:      "snapshot_resources",
			Help:      "Number of resources in the last successfully loaded snapshot.",
		}, []string{"snapshot"})

		p.reg.MustRegister(
			p.constraintScores,
			p.rankDuration,
			p.rankCandidates,
			p.invalidCandidates,
			p.snapshotLoads,
			p.snapshotResources,
		)
	})
}

// RecordConstraintScore observes a normalized constraint score.
func (p *PrometheusCollector) RecordConstraintScore(constraint string, score float64) {
	p.ensureRegistered()
	p.constraintScores.WithLabelValues(constraint).Observe(score)
}

// RecordRankDuration observes ranking latency and counts evaluated candidates.
func (p *PrometheusCollector) RecordRankDuration(duration float64, candidates int) {
	p.ensureRegistered()
	p.rankDuration.Observe(duration)
	if candidates > 0 {
		p.rankCandidates.Add(float64(candidates))
	}
}

// RecordInvalidCandidate increments the invalid candidate counter.
func (p *PrometheusCollector) RecordInvalidCandidate(kind string) {
	p.ensureRegistered()
	p.invalidCandidates.WithLabelValues(kind).Inc()
}

// RecordSnapshotLoad records a snapshot load outcome.
func (p *PrometheusCollector) RecordSnapshotLoad(source string, resources int, success bool) {
	p.ensureRegistered()
	p.snapshotLoads.WithLabelValues(source, strconv.FormatBool(success)).Inc()
	if success {
		p.snapshotResources.WithLabelValues(source).Set(float64(resources))
	}
}
