package testing

import (
	"testing"

	"github.com/arloliu/waged/types"
	"github.com/stretchr/testify/require"
)

// ContextBuilder builds ClusterContext fixtures from literal placements.
//
// Every method fails the test immediately on malformed input (for example a
// node listed twice for the same partition), so fixtures are always valid.
type ContextBuilder struct {
	t            testing.TB
	baseline     *types.AssignmentMapBuilder
	bestPossible *types.AssignmentMapBuilder
	opts         []types.ClusterContextOption
}

// NewContextBuilder creates a builder with empty baseline and best possible assignments.
//
// Parameters:
//   - t: Test handle used to fail on malformed fixtures
//
// Returns:
//   - *ContextBuilder: Fluent fixture builder
func NewContextBuilder(t testing.TB) *ContextBuilder {
	t.Helper()

	return &ContextBuilder{
		t:            t,
		baseline:     types.NewAssignmentMapBuilder(),
		bestPossible: types.NewAssignmentMapBuilder(),
	}
}

// Baseline places node in state for resource/partition in the baseline assignment.
func (b *ContextBuilder) Baseline(resource, partition, node, state string) *ContextBuilder {
	b.t.Helper()
	require.NoError(b.t, b.baseline.Add(resource, partition, node, state))

	return b
}

// BestPossible places node in state for resource/partition in the best possible assignment.
func (b *ContextBuilder) BestPossible(resource, partition, node, state string) *ContextBuilder {
	b.t.Helper()
	require.NoError(b.t, b.bestPossible.Add(resource, partition, node, state))

	return b
}

// Both places node in state in the baseline and the best possible assignment.
func (b *ContextBuilder) Both(resource, partition, node, state string) *ContextBuilder {
	b.t.Helper()

	return b.Baseline(resource, partition, node, state).BestPossible(resource, partition, node, state)
}

// EstimatedMaxPartitionCount sets the estimated maximum replica count per node.
func (b *ContextBuilder) EstimatedMaxPartitionCount(count int) *ContextBuilder {
	b.opts = append(b.opts, types.WithEstimatedMaxPartitionCount(count))

	return b
}

// Build returns the immutable ClusterContext.
func (b *ContextBuilder) Build() *types.ClusterContext {
	b.t.Helper()

	baseline, err := b.baseline.Build()
	require.NoError(b.t, err)
	bestPossible, err := b.bestPossible.Build()
	require.NoError(b.t, err)

	return types.NewClusterContext(baseline, bestPossible, b.opts...)
}

// NewNode returns a node fixture with no assigned replicas.
func NewNode(name string) types.Node {
	return types.Node{InstanceName: name}
}

// NewReplica returns a replica fixture.
func NewReplica(resource, partition, state string) types.Replica {
	return types.Replica{ResourceName: resource, PartitionName: partition, ReplicaState: state}
}
