package types

import "context"

// AssignmentSource loads one assignment snapshot (baseline or best possible).
//
// Implementations can query various backends:
//   - NATS KV: assignments persisted by the rebalancer controller
//   - Static: fixed snapshot for testing
//   - Custom: any cluster metadata store
//
// A rebalance cycle calls Load once per snapshot while building its ClusterContext.
type AssignmentSource interface {
	// Load returns the current snapshot.
	//
	// Implementations should:
	//   - Return an empty AssignmentMap (not an error) when nothing was ever stored
	//   - Handle context cancellation gracefully
	//   - Return errors for transient failures (the cycle decides whether to retry)
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - AssignmentMap: Immutable snapshot
	//   - error: Load error (nil on success)
	Load(ctx context.Context) (AssignmentMap, error)
}
