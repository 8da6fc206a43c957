package types

// ClusterContext aggregates the reference assignments and cluster-wide state
// that soft constraints read while scoring candidates.
//
// One ClusterContext is built per rebalance cycle and discarded afterwards. It is
// never mutated after construction, so any number of goroutines may evaluate
// constraints against it without locking.
type ClusterContext struct {
	baseline     AssignmentMap
	bestPossible AssignmentMap

	estimatedMaxPartitionCount int
}

// ClusterContextOption configures optional ClusterContext state.
type ClusterContextOption func(*ClusterContext)

// WithEstimatedMaxPartitionCount sets the estimated maximum replica count per node.
//
// Parameters:
//   - count: Expected upper bound of replicas on one node (<= 0 disables load scoring)
//
// Returns:
//   - ClusterContextOption: Configuration option
func WithEstimatedMaxPartitionCount(count int) ClusterContextOption {
	return func(c *ClusterContext) {
		c.estimatedMaxPartitionCount = count
	}
}

// NewClusterContext creates a read-only context for one rebalance cycle.
//
// Parameters:
//   - baseline: Previous stable assignment (empty if none was ever computed)
//   - bestPossible: Freshly computed target assignment (empty on first run)
//   - opts: Optional configuration
//
// Returns:
//   - *ClusterContext: Immutable context
//
// Example:
//
//	cc := types.NewClusterContext(baseline, bestPossible,
//	    types.WithEstimatedMaxPartitionCount(12),
//	)
func NewClusterContext(baseline, bestPossible AssignmentMap, opts ...ClusterContextOption) *ClusterContext {
	c := &ClusterContext{
		baseline:     baseline,
		bestPossible: bestPossible,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaselineAssignment returns the previous stable assignment snapshot.
func (c *ClusterContext) BaselineAssignment() AssignmentMap {
	return c.baseline
}

// BestPossibleAssignment returns the freshly computed target assignment snapshot.
func (c *ClusterContext) BestPossibleAssignment() AssignmentMap {
	return c.bestPossible
}

// EstimatedMaxPartitionCount returns the estimated maximum replica count per node.
func (c *ClusterContext) EstimatedMaxPartitionCount() int {
	return c.estimatedMaxPartitionCount
}
