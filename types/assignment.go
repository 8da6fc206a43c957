package types

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ResourceAssignment represents the assignments of replicas for an entire resource,
// keyed on partitions of the resource.
//
// A ResourceAssignment is immutable once constructed: the constructor copies
// the supplied maps and only read accessors are exported. It is therefore safe
// to share between goroutines evaluating candidates concurrently.
type ResourceAssignment struct {
	resource string

	// partition -> node identity -> replica state
	replicaMaps map[string]map[string]string
}

// resourceAssignmentRecord is the JSON wire form of a ResourceAssignment.
//
// It follows the generic record layout ({"id": ..., "mapFields": {...}}) used
// for resource assignments stored in cluster metadata stores.
type resourceAssignmentRecord struct {
	ID        string                       `json:"id"`
	MapFields map[string]map[string]string `json:"mapFields"`
}

// NewResourceAssignment creates an immutable assignment for a resource.
//
// Parameters:
//   - resource: Resource name (must not be empty)
//   - replicaMaps: Map from partition name to {node identity: replica state}
//
// Returns:
//   - *ResourceAssignment: Deep copy of the supplied maps
//   - error: ErrInvalidInput if any name or state is empty
//
// Example:
//
//	ra, err := types.NewResourceAssignment("db", map[string]map[string]string{
//	    "db_0": {"node-a": "MASTER", "node-b": "SLAVE"},
//	})
func NewResourceAssignment(resource string, replicaMaps map[string]map[string]string) (*ResourceAssignment, error) {
	if resource == "" {
		return nil, fmt.Errorf("%w: resource name is empty", ErrInvalidInput)
	}

	ra := &ResourceAssignment{
		resource:    resource,
		replicaMaps: make(map[string]map[string]string, len(replicaMaps)),
	}

	for partition, replicas := range replicaMaps {
		if partition == "" {
			return nil, fmt.Errorf("%w: resource %s has a partition with empty name", ErrInvalidInput, resource)
		}
		for node, state := range replicas {
			if node == "" {
				return nil, fmt.Errorf("%w: %s/%s has a replica with empty node identity",
					ErrInvalidInput, resource, partition)
			}
			if state == "" {
				return nil, fmt.Errorf("%w: %s/%s has an empty state on node %s",
					ErrInvalidInput, resource, partition, node)
			}
		}
		ra.replicaMaps[partition] = maps.Clone(replicas)
	}

	return ra, nil
}

// Resource returns the resource name.
func (ra *ResourceAssignment) Resource() string {
	return ra.resource
}

// MappedPartitions returns the currently mapped partition names in sorted order.
func (ra *ResourceAssignment) MappedPartitions() []string {
	return slices.Sorted(maps.Keys(ra.replicaMaps))
}

// ReplicaMap returns the node, state pairs for a partition.
// e.g. {"localhost_10001": "MASTER"}
//
// The returned map is a copy; an unmapped partition yields an empty map.
func (ra *ResourceAssignment) ReplicaMap(partition string) map[string]string {
	replicas, ok := ra.replicaMaps[partition]
	if !ok {
		return map[string]string{}
	}

	return maps.Clone(replicas)
}

// ReplicaState looks up the state recorded for node in partition without copying.
//
// Returns:
//   - string: Recorded state ("" if not found)
//   - bool: true if node holds a replica of partition
func (ra *ResourceAssignment) ReplicaState(partition, node string) (string, bool) {
	state, ok := ra.replicaMaps[partition][node]

	return state, ok
}

// MarshalJSON implements json.Marshaler.
func (ra *ResourceAssignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(resourceAssignmentRecord{
		ID:        ra.resource,
		MapFields: ra.replicaMaps,
	})
}

// UnmarshalJSON implements json.Unmarshaler, validating the decoded record.
func (ra *ResourceAssignment) UnmarshalJSON(data []byte) error {
	var rec resourceAssignmentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	decoded, err := NewResourceAssignment(rec.ID, rec.MapFields)
	if err != nil {
		return err
	}
	*ra = *decoded

	return nil
}

// AssignmentMap is a read-only snapshot mapping resource name to ResourceAssignment.
//
// The zero value is a valid empty snapshot: "no data" is always represented by
// an empty map, never by a nil pointer.
type AssignmentMap struct {
	resources map[string]*ResourceAssignment
}

// NewAssignmentMap builds a snapshot from resource assignments.
//
// Parameters:
//   - assignments: One assignment per resource (nil entries are rejected)
//
// Returns:
//   - AssignmentMap: Immutable snapshot
//   - error: ErrInvalidInput on nil entries, ErrDuplicateResource on repeated resources
func NewAssignmentMap(assignments ...*ResourceAssignment) (AssignmentMap, error) {
	resources := make(map[string]*ResourceAssignment, len(assignments))
	for _, ra := range assignments {
		if ra == nil {
			return AssignmentMap{}, fmt.Errorf("%w: nil resource assignment", ErrInvalidInput)
		}
		if _, exists := resources[ra.resource]; exists {
			return AssignmentMap{}, fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrDuplicateResource, ra.resource)
		}
		resources[ra.resource] = ra
	}

	return AssignmentMap{resources: resources}, nil
}

// IsEmpty reports whether the snapshot holds no resource at all.
//
// An empty best possible snapshot means "no optimal assignment has been computed yet".
func (m AssignmentMap) IsEmpty() bool {
	return len(m.resources) == 0
}

// Len returns the number of resources in the snapshot.
func (m AssignmentMap) Len() int {
	return len(m.resources)
}

// Resources returns the resource names in sorted order.
func (m AssignmentMap) Resources() []string {
	return slices.Sorted(maps.Keys(m.resources))
}

// Resource returns the assignment of a single resource.
func (m AssignmentMap) Resource(name string) (*ResourceAssignment, bool) {
	ra, ok := m.resources[name]

	return ra, ok
}

// ReplicaState looks up the state of node for resource/partition.
//
// A missing resource, partition or node all report ok=false (no allocation).
func (m AssignmentMap) ReplicaState(resource, partition, node string) (string, bool) {
	ra, ok := m.resources[resource]
	if !ok {
		return "", false
	}

	return ra.ReplicaState(partition, node)
}

// AssignmentMapBuilder accumulates replica placements and produces an AssignmentMap.
//
// The builder is not safe for concurrent use; the AssignmentMap it builds is.
type AssignmentMapBuilder struct {
	// resource -> partition -> node -> state
	entries map[string]map[string]map[string]string
}

// NewAssignmentMapBuilder creates an empty builder.
func NewAssignmentMapBuilder() *AssignmentMapBuilder {
	return &AssignmentMapBuilder{entries: make(map[string]map[string]map[string]string)}
}

// Add records that node holds a replica of resource/partition in state.
//
// Returns:
//   - error: ErrInvalidInput wrapping ErrDuplicateReplica if node is already listed
//     for the partition, ErrInvalidInput if any argument is empty
func (b *AssignmentMapBuilder) Add(resource, partition, node, state string) error {
	if resource == "" || partition == "" || node == "" || state == "" {
		return fmt.Errorf("%w: empty field in placement %q/%q/%q=%q",
			ErrInvalidInput, resource, partition, node, state)
	}

	partitions, ok := b.entries[resource]
	if !ok {
		partitions = make(map[string]map[string]string)
		b.entries[resource] = partitions
	}

	replicas, ok := partitions[partition]
	if !ok {
		replicas = make(map[string]string)
		partitions[partition] = replicas
	}

	if existing, dup := replicas[node]; dup {
		return fmt.Errorf("%w: %w: %s/%s on %s (already %s)",
			ErrInvalidInput, ErrDuplicateReplica, resource, partition, node, existing)
	}
	replicas[node] = state

	return nil
}

// Build returns an immutable snapshot of everything added so far.
//
// The builder may keep being used afterwards without affecting the snapshot.
func (b *AssignmentMapBuilder) Build() (AssignmentMap, error) {
	assignments := make([]*ResourceAssignment, 0, len(b.entries))
	for _, resource := range slices.Sorted(maps.Keys(b.entries)) {
		ra, err := NewResourceAssignment(resource, b.entries[resource])
		if err != nil {
			return AssignmentMap{}, err
		}
		assignments = append(assignments, ra)
	}

	return NewAssignmentMap(assignments...)
}
