package constraint

import "github.com/arloliu/waged/types"

// PartitionMovementName is the configuration and metrics name of PartitionMovement.
const PartitionMovementName = "PartitionMovement"

// Score tiers of the partition movement constraint.
const (
	// replica is placed on the preferred node in the preferred state
	movementStateMatchScore = 1.0
	// replica is placed on the preferred node in another state
	movementAllocationMatchScore = 0.5
	// replica is placed on a node that only the fallback assignment holds
	movementFallbackMatchScore = 0.25
	movementNoMatchScore       = 0.0
)

// PartitionMovement evaluates how a replica placement preserves continuity with
// the best possible and baseline assignments.
//
// Placing a replica where the best possible assignment already put it avoids an
// unnecessary move; when a move is unavoidable, moving toward the best possible
// assignment is preferred over any other location. The baseline only earns
// partial credit.
type PartitionMovement struct {
	scoreRange ScoreRange
}

var _ types.SoftConstraint = (*PartitionMovement)(nil)

// NewPartitionMovement creates a partition movement constraint with range [0, 1].
//
// Returns:
//   - *PartitionMovement: Stateless constraint, safe for concurrent use
//
// Example:
//
//	movement := constraint.NewPartitionMovement()
//	score := movement.AssignmentNormalizedScore(node, replica, cc)
func NewPartitionMovement() *PartitionMovement {
	return &PartitionMovement{
		scoreRange: ScoreRange{Min: movementNoMatchScore, Max: movementStateMatchScore},
	}
}

// Name returns "PartitionMovement".
func (c *PartitionMovement) Name() string {
	return PartitionMovementName
}

// AssignmentScore scores placing replica on node.
//
// The algorithm:
//  1. Pick the preferred assignment: best possible when it holds any resource,
//     otherwise the baseline (bootstrap) with no fallback
//  2. Preferred assignment holds node in the replica's state → 1.0
//  3. Preferred assignment holds node in another state → 0.5
//  4. Fallback (baseline) holds node in any state → 0.25
//  5. Otherwise → 0.0
//
// A resource, partition or node missing from an assignment means no allocation.
//
// Parameters:
//   - node: Candidate node
//   - replica: Replica to place, carrying its desired state
//   - cc: Read-only cluster context
//
// Returns:
//   - float64: Score in [0, 1]
func (c *PartitionMovement) AssignmentScore(node types.Node, replica types.Replica, cc *types.ClusterContext) float64 {
	preferred := cc.BestPossibleAssignment()
	fallback := cc.BaselineAssignment()
	hasFallback := true

	// An empty best possible assignment means none has been computed yet, not that
	// this node is excluded from it. Promote the baseline in its place.
	if preferred.IsEmpty() {
		preferred = fallback
		hasFallback = false
	}

	state, allocated := preferred.ReplicaState(replica.ResourceName, replica.PartitionName, node.Identity())
	if allocated {
		if state == replica.ReplicaState {
			return movementStateMatchScore
		}

		return movementAllocationMatchScore
	}

	// Fallback tier ignores the recorded state; allocation alone earns the credit.
	if hasFallback {
		if _, ok := fallback.ReplicaState(replica.ResourceName, replica.PartitionName, node.Identity()); ok {
			return movementFallbackMatchScore
		}
	}

	return movementNoMatchScore
}

// AssignmentNormalizedScore returns the normalized score, which equals the raw
// score for this constraint.
func (c *PartitionMovement) AssignmentNormalizedScore(node types.Node, replica types.Replica, cc *types.ClusterContext) float64 {
	return c.scoreRange.Normalize(c.AssignmentScore(node, replica, cc))
}
