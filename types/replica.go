package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Replica is one partition replica of one resource that needs placement.
//
// ReplicaState is the state the replica takes on if placed on the candidate
// node (e.g., "MASTER", "SLAVE", "LEADER"). It is always a concrete value.
type Replica struct {
	ResourceName  string `json:"resourceName"`
	PartitionName string `json:"partitionName"`
	ReplicaState  string `json:"replicaState"`
}

// Key returns a stable identifier of the replica.
//
// The resource and partition names are length prefixed, so distinct replicas
// never share a key even when their names contain separators. Two replicas of
// the same partition that share a state (e.g., two SLAVE replicas) have the
// same key and score identically on every node.
func (r Replica) Key() string {
	var b strings.Builder
	b.Grow(len(r.ResourceName) + len(r.PartitionName) + len(r.ReplicaState) + 8)
	b.WriteString(strconv.Itoa(len(r.ResourceName)))
	b.WriteByte(':')
	b.WriteString(r.ResourceName)
	b.WriteString(strconv.Itoa(len(r.PartitionName)))
	b.WriteByte(':')
	b.WriteString(r.PartitionName)
	b.WriteString(r.ReplicaState)

	return b.String()
}

// String returns the replica in "resource/partition/state" form.
func (r Replica) String() string {
	return r.ResourceName + "/" + r.PartitionName + "/" + r.ReplicaState
}

// Validate checks that the replica carries every identity field and a desired state.
//
// Returns:
//   - error: ErrInvalidInput wrapped with detail, nil if valid
func (r Replica) Validate() error {
	switch {
	case r.ResourceName == "":
		return fmt.Errorf("%w: replica resource name is empty", ErrInvalidInput)
	case r.PartitionName == "":
		return fmt.Errorf("%w: replica %s has empty partition name", ErrInvalidInput, r.ResourceName)
	case r.ReplicaState == "":
		return fmt.Errorf("%w: replica %s/%s has no desired state",
			ErrInvalidInput, r.ResourceName, r.PartitionName)
	}

	return nil
}
