package waged

import (
	"errors"

	"github.com/arloliu/waged/types"
)

// Sentinel errors returned by the Scorer.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoConstraints is returned when no constraint carries a positive weight.
	ErrNoConstraints = errors.New("at least one constraint must have a positive weight")

	// ErrNoCandidates is returned by Best when no candidate node is given.
	ErrNoCandidates = errors.New("no candidate nodes")

	// ErrInvalidInput is returned for malformed nodes, replicas or a nil cluster context.
	ErrInvalidInput = types.ErrInvalidInput
)
