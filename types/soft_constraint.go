package types

// SoftConstraint scores how desirable it is to place a replica on a node.
//
// Soft constraints never exclude a candidate; they contribute a weighted
// signal that the aggregator combines to rank candidate nodes. Hard feasibility
// rules (capacity, fault zone) are applied before soft scoring.
//
// Built-in constraints:
//   - PartitionMovement: Rewards matching the best possible and baseline assignments
//   - InstancePartitionsCount: Prefers nodes carrying fewer replicas
//
// Constraint implementations should:
//   - Be pure (same input → same output, no mutation of the ClusterContext)
//   - Be safe for concurrent use (evaluated from many goroutines per cycle)
//   - Be total over well-formed input (missing reference data is not an error)
//   - Keep every raw score within their declared range
type SoftConstraint interface {
	// Name returns a stable constraint name used in configuration and metrics.
	Name() string

	// AssignmentScore returns the raw desirability of placing replica on node.
	//
	// The value lies in the constraint's own fixed [min, max] range.
	AssignmentScore(node Node, replica Replica, cc *ClusterContext) float64

	// AssignmentNormalizedScore returns the raw score rescaled to [0, 1] as
	// (raw - min) / (max - min), clamped. It must not add any logic on top of
	// AssignmentScore so that constraints with different ranges are comparable.
	AssignmentNormalizedScore(node Node, replica Replica, cc *ClusterContext) float64
}
