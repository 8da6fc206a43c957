package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/waged/types"
)

// ErrSourceRequired is returned when a snapshot source is nil.
var ErrSourceRequired = errors.New("assignment source is required")

// BuildClusterContext loads both snapshots and assembles the ClusterContext of one cycle.
//
// Parameters:
//   - ctx: Context for cancellation
//   - baseline: Source of the previous stable assignment
//   - bestPossible: Source of the freshly computed target assignment
//   - opts: ClusterContext options (e.g., types.WithEstimatedMaxPartitionCount)
//
// Returns:
//   - *types.ClusterContext: Immutable context
//   - error: ErrSourceRequired or the first load failure
func BuildClusterContext(
	ctx context.Context,
	baseline types.AssignmentSource,
	bestPossible types.AssignmentSource,
	opts ...types.ClusterContextOption,
) (*types.ClusterContext, error) {
	if baseline == nil || bestPossible == nil {
		return nil, ErrSourceRequired
	}

	baselineMap, err := baseline.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	bestPossibleMap, err := bestPossible.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("best possible: %w", err)
	}

	return types.NewClusterContext(baselineMap, bestPossibleMap, opts...), nil
}
