// Package waged provides soft-constraint scoring for replica placement in a
// partitioned, replicated resource cluster.
//
// Each soft constraint scores how desirable it is to place one replica of a
// resource partition on a candidate node. The Scorer combines the normalized
// scores of weighted constraints into a single preference, ranks candidate nodes
// and can rank many replicas concurrently.
//
// # Quick Start
//
// Scoring against in-memory snapshots:
//
//	import (
//	    "github.com/arloliu/waged"
//	    "github.com/arloliu/waged/source"
//	)
//
//	cfg := waged.DefaultConfig()
//	scorer, err := waged.NewScorer(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cc, err := source.BuildClusterContext(ctx,
//	    source.NewStatic(baseline),
//	    source.NewStatic(bestPossible),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ranked, err := scorer.Rank(nodes, waged.Replica{
//	    ResourceName:  "db",
//	    PartitionName: "db_0",
//	    ReplicaState:  "MASTER",
//	}, cc)
//
// # Constraints
//
//   - PartitionMovement: rewards keeping a replica where the best possible
//     assignment (or, when none exists yet, the baseline) already placed it,
//     to avoid unnecessary partition movement
//   - InstancePartitionsCount: prefers nodes that carry fewer replicas
//
// Custom constraints implement SoftConstraint and are added with WithConstraint.
//
// # Snapshots
//
// The baseline assignment is the last stable placement and the best possible
// assignment is the freshly computed target. Both are immutable AssignmentMap
// values held by a read-only ClusterContext. The source package loads them from
// memory or from a NATS JetStream KV bucket.
//
// See the examples/ directory for complete working examples.
package waged
