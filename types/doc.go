// Package types provides core type definitions and interfaces for the waged library.
//
// This package contains shared types that are used across multiple packages in the
// waged library. By keeping these types in a separate package, we avoid import cycles
// between the main waged package, the constraint implementations and the snapshot sources.
//
// Key types:
//   - Node: Placement target identity
//   - Replica: One partition replica waiting for placement
//   - ResourceAssignment: Per-resource partition -> node -> state map
//   - AssignmentMap: Resource name -> ResourceAssignment snapshot
//   - ClusterContext: Read-only baseline and best possible snapshots for one rebalance cycle
//   - SoftConstraint: Scoring strategy interface
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
