package waged

import (
	"log/slog"

	"github.com/arloliu/waged/internal/logging"
	"github.com/arloliu/waged/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Scorer with optional dependencies.
type Option func(*scorerOptions)

// scorerOptions holds optional Scorer configuration.
type scorerOptions struct {
	metrics     MetricsCollector
	logger      Logger
	constraints []weightedConstraint
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation (nil keeps the no-op collector)
//
// Returns:
//   - Option: Functional option for NewScorer
//
// Example:
//
//	m := waged.NewPrometheusMetrics(prometheus.DefaultRegisterer, "waged")
//	scorer, err := waged.NewScorer(&cfg, waged.WithMetrics(m))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *scorerOptions) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger, nil keeps the no-op logger)
//
// Returns:
//   - Option: Functional option for NewScorer
//
// Example:
//
//	scorer, err := waged.NewScorer(&cfg, waged.WithLogger(waged.NewSlogLogger(slog.Default())))
func WithLogger(logger Logger) Option {
	return func(o *scorerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConstraint registers an additional constraint next to the configured built-ins.
//
// Custom constraints must honor the SoftConstraint contract: a normalized score
// in [0, 1] and no mutation of the cluster context. Scores outside [0, 1] are
// clamped. A weight <= 0 is ignored; NewScorer rejects a weight that is not
// finite or exceeds the configured maximum.
//
// Parameters:
//   - c: Constraint implementation
//   - weight: Relative weight of the constraint (finite, at most 1e6)
//
// Returns:
//   - Option: Functional option for NewScorer
//
// Example:
//
//	scorer, err := waged.NewScorer(&cfg, waged.WithConstraint(myZoneAffinity, 0.5))
func WithConstraint(c SoftConstraint, weight float64) Option {
	return func(o *scorerOptions) {
		o.constraints = append(o.constraints, weightedConstraint{constraint: c, weight: weight})
	}
}

// NewSlogLogger adapts a *slog.Logger to the Logger interface.
//
// Parameters:
//   - logger: slog logger (nil uses slog.Default())
//
// Returns:
//   - Logger: Logger backed by slog
func NewSlogLogger(logger *slog.Logger) Logger {
	return logging.NewSlog(logger)
}

// NewPrometheusMetrics creates a MetricsCollector backed by Prometheus.
//
// Collectors are registered with reg on first use.
//
// Parameters:
//   - reg: Registerer (nil uses prometheus.DefaultRegisterer)
//   - namespace: Metric namespace (empty uses "waged")
//
// Returns:
//   - MetricsCollector: Prometheus collector
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
