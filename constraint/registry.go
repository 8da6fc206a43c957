package constraint

import (
	"fmt"
	"maps"
	"slices"

	"github.com/arloliu/waged/types"
)

var builtins = map[string]func() types.SoftConstraint{
	PartitionMovementName:       func() types.SoftConstraint { return NewPartitionMovement() },
	InstancePartitionsCountName: func() types.SoftConstraint { return NewInstancePartitionsCount() },
}

// New creates a built-in constraint by name.
//
// Parameters:
//   - name: Constraint name (e.g., "PartitionMovement")
//
// Returns:
//   - types.SoftConstraint: New constraint instance
//   - error: ErrUnknownConstraint if name is not a built-in constraint
func New(name string) (types.SoftConstraint, error) {
	ctor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
	}

	return ctor(), nil
}

// Names returns the built-in constraint names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(builtins))
}
