// Package kvutil provides utilities for working with NATS JetStream KeyValue stores.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// OpenBucketWithRetry opens an existing KV bucket, retrying transient failures.
//
// A missing bucket is not retried: jetstream.ErrBucketNotFound is returned
// immediately so callers can treat it as "nothing stored yet".
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - bucket: Bucket name
//   - maxRetries: Maximum number of attempts (default: 3)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: jetstream.ErrBucketNotFound, context error, or the last failure
//
// Example:
//
//	kv, err := kvutil.OpenBucketWithRetry(ctx, js, "waged-assignment", 3)
//	if errors.Is(err, jetstream.ErrBucketNotFound) {
//	    // no snapshot was ever published
//	}
func OpenBucketWithRetry(
	ctx context.Context,
	js jetstream.JetStream,
	bucket string,
	maxRetries int,
) (jetstream.KeyValue, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		kv, err := js.KeyValue(ctx, bucket)
		if err == nil {
			return kv, nil
		}
		if errors.Is(err, jetstream.ErrBucketNotFound) {
			return nil, err
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled while opening KV bucket: %w", ctx.Err())
		}

		// Exponential backoff: 10ms, 20ms, 40ms...
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is bounded by maxRetries
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("failed to open KV bucket %s after %d attempts: %w",
		bucket, maxRetries, lastErr)
}
