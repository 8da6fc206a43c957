package constraint

import "github.com/arloliu/waged/types"

// InstancePartitionsCountName is the configuration and metrics name of InstancePartitionsCount.
const InstancePartitionsCountName = "InstancePartitionsCount"

// InstancePartitionsCount prefers nodes that carry fewer replicas.
//
// The raw score is the negated load ratio -min(assigned/estimatedMax, 1), so it
// lies in [-1, 0] and an empty node scores highest. When the cluster context has
// no estimated maximum every node scores 0 (no preference).
type InstancePartitionsCount struct {
	scoreRange ScoreRange
}

var _ types.SoftConstraint = (*InstancePartitionsCount)(nil)

// NewInstancePartitionsCount creates a load-spreading constraint with range [-1, 0].
//
// Returns:
//   - *InstancePartitionsCount: Stateless constraint, safe for concurrent use
func NewInstancePartitionsCount() *InstancePartitionsCount {
	return &InstancePartitionsCount{
		scoreRange: ScoreRange{Min: -1, Max: 0},
	}
}

// Name returns "InstancePartitionsCount".
func (c *InstancePartitionsCount) Name() string {
	return InstancePartitionsCountName
}

// AssignmentScore returns the negated load ratio of node.
//
// Parameters:
//   - node: Candidate node (AssignedReplicaCount is read)
//   - _: Replica (unused, load is replica independent)
//   - cc: Cluster context providing the estimated maximum per node
//
// Returns:
//   - float64: Score in [-1, 0]
func (c *InstancePartitionsCount) AssignmentScore(node types.Node, _ types.Replica, cc *types.ClusterContext) float64 {
	estimatedMax := cc.EstimatedMaxPartitionCount()
	if estimatedMax <= 0 {
		return c.scoreRange.Max
	}

	ratio := float64(node.AssignedReplicaCount) / float64(estimatedMax)

	return c.scoreRange.Clamp(-ratio)
}

// AssignmentNormalizedScore maps the raw score from [-1, 0] onto [0, 1].
func (c *InstancePartitionsCount) AssignmentNormalizedScore(node types.Node, replica types.Replica, cc *types.ClusterContext) float64 {
	return c.scoreRange.Normalize(c.AssignmentScore(node, replica, cc))
}
