// Package constraint provides built-in soft constraint implementations.
//
// Soft constraints score a candidate (node, replica) placement. Each constraint
// owns a fixed raw score range and exposes a normalized score in [0, 1] so the
// aggregator can combine constraints with different native ranges.
//
//   - PartitionMovement: Rewards candidates that keep a replica where the best
//     possible (preferred) or baseline assignment already placed it
//   - InstancePartitionsCount: Prefers nodes carrying fewer replicas relative to
//     the cluster's estimated maximum per node
//
// # Writing a Constraint
//
// Custom constraints implement types.SoftConstraint. Declare the raw range with a
// ScoreRange and derive the normalized score from it:
//
//	type myConstraint struct{ scoreRange constraint.ScoreRange }
//
//	func (c *myConstraint) AssignmentNormalizedScore(n types.Node, r types.Replica, cc *types.ClusterContext) float64 {
//	    return c.scoreRange.Normalize(c.AssignmentScore(n, r, cc))
//	}
//
// Constraints must not mutate the ClusterContext and must be safe for
// concurrent use.
package constraint
