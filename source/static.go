package source

import (
	"context"
	"sync"

	"github.com/arloliu/waged/types"
)

// Static implements an assignment source with a fixed snapshot.
type Static struct {
	mu       sync.RWMutex
	snapshot types.AssignmentMap
}

var _ types.AssignmentSource = (*Static)(nil)

// NewStatic creates a new static assignment source.
//
// Parameters:
//   - snapshot: Snapshot returned by every Load (the zero value is an empty snapshot)
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	b := types.NewAssignmentMapBuilder()
//	_ = b.Add("db", "db_0", "node-a", "MASTER")
//	snapshot, _ := b.Build()
//	cc, err := source.BuildClusterContext(ctx, source.NewStatic(snapshot), source.NewStatic(types.AssignmentMap{}))
func NewStatic(snapshot types.AssignmentMap) *Static {
	return &Static{snapshot: snapshot}
}

// Load returns the static snapshot.
//
// Returns:
//   - types.AssignmentMap: The current snapshot
//   - error: Always nil (never fails)
func (s *Static) Load(_ context.Context) (types.AssignmentMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot, nil
}

// Update replaces the snapshot returned by subsequent Load calls.
//
// Snapshots are immutable, so contexts built from earlier loads are unaffected.
func (s *Static) Update(snapshot types.AssignmentMap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
}
