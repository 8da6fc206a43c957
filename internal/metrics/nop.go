package metrics

import "github.com/arloliu/waged/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	scorer, err := waged.NewScorer(&cfg, waged.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ScoringMetrics implementation

// RecordConstraintScore discards the constraint score.
func (n *NopMetrics) RecordConstraintScore(_ /* constraint */ string, _ /* score */ float64) {
	// No-op
}

// RecordRankDuration discards the ranking duration.
func (n *NopMetrics) RecordRankDuration(_ /* duration */ float64, _ /* candidates */ int) {
	// No-op
}

// RecordInvalidCandidate discards the rejected candidate.
func (n *NopMetrics) RecordInvalidCandidate(_ /* kind */ string) {
	// No-op
}

// SourceMetrics implementation

// RecordSnapshotLoad discards the snapshot load metric.
func (n *NopMetrics) RecordSnapshotLoad(_ /* source */ string, _ /* resources */ int, _ /* success */ bool) {
	// No-op
}
