package types

// MetricsCollector defines methods for recording scoring metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods are called from scoring goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	ScoringMetrics
	SourceMetrics
}

// ScoringMetrics defines metrics for candidate evaluation and ranking.
type ScoringMetrics interface {
	// RecordConstraintScore records one normalized score produced by a constraint.
	//
	// Parameters:
	//   - constraint: Constraint name (e.g., "PartitionMovement")
	//   - score: Normalized score in [0, 1]
	RecordConstraintScore(constraint string, score float64)

	// RecordRankDuration records the time taken to rank candidate nodes.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - candidates: Number of (node, replica) pairs evaluated
	RecordRankDuration(duration float64, candidates int)

	// RecordInvalidCandidate records a candidate rejected with ErrInvalidInput.
	//
	// Parameters:
	//   - kind: Rejected input kind ("node", "replica", "context")
	RecordInvalidCandidate(kind string)
}

// SourceMetrics defines metrics for assignment snapshot loading.
type SourceMetrics interface {
	// RecordSnapshotLoad records an assignment snapshot load attempt.
	//
	// Parameters:
	//   - source: Snapshot name (e.g., "baseline", "best_possible")
	//   - resources: Number of resources loaded (0 on failure)
	//   - success: true if the snapshot loaded successfully
	RecordSnapshotLoad(source string, resources int, success bool)
}
