package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/waged/internal/kvutil"
	"github.com/arloliu/waged/internal/logging"
	"github.com/arloliu/waged/internal/metrics"
	"github.com/arloliu/waged/types"
	"github.com/nats-io/nats.go/jetstream"
)

// Snapshot key prefixes used in the assignment bucket.
const (
	SnapshotBaseline     = "baseline"
	SnapshotBestPossible = "bestpossible"
)

// KV loads an assignment snapshot from a NATS JetStream KV bucket.
//
// Each resource is stored under "<snapshot>.<resource>" as a JSON record
// ({"id": resource, "mapFields": {partition: {node: state}}}). A missing bucket
// or a bucket without keys for the snapshot yields an empty snapshot.
type KV struct {
	js         jetstream.JetStream
	bucket     string
	snapshot   string
	keyPrefix  string // cached "snapshot."
	maxRetries int

	logger  types.Logger
	metrics types.SourceMetrics
}

var _ types.AssignmentSource = (*KV)(nil)

// KVOption configures a KV source.
type KVOption func(*KV)

// WithKVLogger sets the logger used while loading.
func WithKVLogger(logger types.Logger) KVOption {
	return func(s *KV) {
		s.logger = logger
	}
}

// WithKVMetrics sets the metrics collector used while loading.
func WithKVMetrics(m types.SourceMetrics) KVOption {
	return func(s *KV) {
		s.metrics = m
	}
}

// WithKVMaxRetries sets how many times opening the bucket is attempted.
func WithKVMaxRetries(n int) KVOption {
	return func(s *KV) {
		s.maxRetries = n
	}
}

// NewKV creates a KV-backed assignment source.
//
// Parameters:
//   - js: JetStream context
//   - bucket: KV bucket holding assignment records (e.g., "waged-assignment")
//   - snapshot: Key prefix, SnapshotBaseline or SnapshotBestPossible
//   - opts: Optional configuration
//
// Returns:
//   - *KV: Initialized source (the bucket is opened on each Load)
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	baseline := source.NewKV(js, cfg.KVBucket, source.SnapshotBaseline)
//	bestPossible := source.NewKV(js, cfg.KVBucket, source.SnapshotBestPossible)
//	cc, err := source.BuildClusterContext(ctx, baseline, bestPossible)
func NewKV(js jetstream.JetStream, bucket, snapshot string, opts ...KVOption) *KV {
	s := &KV{
		js:         js,
		bucket:     bucket,
		snapshot:   snapshot,
		keyPrefix:  snapshot + ".",
		maxRetries: 3,
		logger:     logging.NewNop(),
		metrics:    metrics.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Key returns the KV key of resource in this snapshot.
func (s *KV) Key(resource string) string {
	return s.keyPrefix + resource
}

// Load reads every resource record of the snapshot.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - types.AssignmentMap: Immutable snapshot (empty if nothing is stored)
//   - error: ErrSnapshotLoadFailed wrapping KV or decoding errors
func (s *KV) Load(ctx context.Context) (types.AssignmentMap, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		s.metrics.RecordSnapshotLoad(s.snapshot, 0, false)
		s.logger.Warn("failed to load assignment snapshot", "snapshot", s.snapshot, "bucket", s.bucket, "error", err)

		return types.AssignmentMap{}, fmt.Errorf("%w: %s: %w", types.ErrSnapshotLoadFailed, s.snapshot, err)
	}

	s.metrics.RecordSnapshotLoad(s.snapshot, snapshot.Len(), true)
	s.logger.Debug("loaded assignment snapshot", "snapshot", s.snapshot, "resources", snapshot.Len())

	return snapshot, nil
}

func (s *KV) load(ctx context.Context) (types.AssignmentMap, error) {
	kv, err := kvutil.OpenBucketWithRetry(ctx, s.js, s.bucket, s.maxRetries)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		s.logger.Debug("assignment bucket not found, using empty snapshot", "bucket", s.bucket)
		return types.AssignmentMap{}, nil
	}
	if err != nil {
		return types.AssignmentMap{}, err
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) || types.IsNoKeysFoundError(err) {
			return types.AssignmentMap{}, nil
		}

		return types.AssignmentMap{}, fmt.Errorf("failed to list KV keys: %w", err)
	}

	assignments := make([]*types.ResourceAssignment, 0, len(keys))
	for _, key := range keys {
		// Skip keys of the other snapshot
		if !strings.HasPrefix(key, s.keyPrefix) {
			continue
		}

		entry, err := kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			// deleted between Keys and Get
			continue
		}
		if err != nil {
			return types.AssignmentMap{}, fmt.Errorf("failed to read %s: %w", key, err)
		}

		var ra types.ResourceAssignment
		if err := json.Unmarshal(entry.Value(), &ra); err != nil {
			return types.AssignmentMap{}, fmt.Errorf("failed to decode %s: %w", key, err)
		}

		if resource := strings.TrimPrefix(key, s.keyPrefix); ra.Resource() != resource {
			return types.AssignmentMap{}, fmt.Errorf("%w: key %s holds resource %s",
				types.ErrInvalidInput, key, ra.Resource())
		}

		assignments = append(assignments, &ra)
	}

	return types.NewAssignmentMap(assignments...)
}
