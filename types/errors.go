package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the waged library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Model errors - returned while building assignment snapshots and candidates.
var (
	// ErrInvalidInput is returned when a node, replica, assignment or cluster context
	// is malformed (missing identity, missing state, duplicate entries).
	//
	// Absence of reference data is never reported with this error: a resource,
	// partition or node missing from an assignment map means "no allocation".
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateResource is returned when an AssignmentMap receives two
	// assignments for the same resource.
	ErrDuplicateResource = errors.New("duplicate resource assignment")

	// ErrDuplicateReplica is returned when a partition lists the same node twice.
	ErrDuplicateReplica = errors.New("duplicate node entry for partition")
)

// Source errors - returned by assignment snapshot sources.
var (
	// ErrSnapshotLoadFailed is returned when an assignment snapshot cannot be loaded.
	ErrSnapshotLoadFailed = errors.New("failed to load assignment snapshot")

	// ErrNoKeysFound is returned when NATS KV returns no keys (expected condition).
	ErrNoKeysFound = errors.New("no keys found")
)

// IsInvalidInput reports whether err is (or wraps) ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNoKeysFoundError checks if an error indicates that no keys were found in NATS KV.
//
// This function handles NATS-specific "no keys found" errors which may come as:
//   - Direct error: "nats: no keys found"
//   - Wrapped error: "failed to list KV keys: nats: no keys found"
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates no keys were found, false otherwise
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}
