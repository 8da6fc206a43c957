package waged

import "github.com/arloliu/waged/types"

// Re-export types from the types package.
//
// Constraints and sources depend on `types` rather than on the root `waged`
// package, which keeps the import graph acyclic while still offering
// `waged.Node`, `waged.ClusterContext`, etc. to users.
type (
	Node               = types.Node
	Replica            = types.Replica
	ResourceAssignment = types.ResourceAssignment
	AssignmentMap      = types.AssignmentMap
	ClusterContext     = types.ClusterContext
)

// Re-export interfaces from the types package for convenience.
type (
	SoftConstraint   = types.SoftConstraint
	AssignmentSource = types.AssignmentSource
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
)
