package types

import "fmt"

// Node identifies a placement target (a cluster instance).
//
// Nodes are immutable for the duration of a rebalance cycle and are owned by
// the cluster topology collaborator.
type Node struct {
	// InstanceName uniquely identifies the node in the cluster (e.g., "localhost_12913").
	InstanceName string `json:"instanceName"`

	// AssignedReplicaCount is the number of replicas already placed on the node
	// in the assignment under construction. Used by load-oriented constraints.
	AssignedReplicaCount int `json:"assignedReplicaCount"`
}

// Identity returns the unique node identity used as key in assignment maps.
func (n Node) Identity() string {
	return n.InstanceName
}

// Validate checks that the node can take part in a scoring pass.
//
// Returns:
//   - error: ErrInvalidInput wrapped with detail, nil if valid
func (n Node) Validate() error {
	if n.InstanceName == "" {
		return fmt.Errorf("%w: node instance name is empty", ErrInvalidInput)
	}
	if n.AssignedReplicaCount < 0 {
		return fmt.Errorf("%w: node %s has negative assigned replica count %d",
			ErrInvalidInput, n.InstanceName, n.AssignedReplicaCount)
	}

	return nil
}
