// Package source provides built-in assignment snapshot sources.
//
// Assignment sources load the baseline and best possible snapshots a rebalance
// cycle scores against. The package includes:
//
//   - Static: Fixed in-memory snapshot
//   - KV: Snapshot stored in a NATS JetStream KV bucket, one key per resource
//
// BuildClusterContext loads both snapshots and assembles the read-only
// ClusterContext for one cycle. Custom sources can be implemented by satisfying
// the types.AssignmentSource interface.
package source
