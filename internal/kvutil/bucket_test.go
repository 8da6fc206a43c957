package kvutil

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	wagedtest "github.com/arloliu/waged/testing"
)

func TestOpenBucketWithRetry(t *testing.T) {
	_, nc := wagedtest.StartEmbeddedNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("opens an existing bucket", func(t *testing.T) {
		wagedtest.CreateJetStreamKV(t, nc, "existing-bucket")

		kv, err := OpenBucketWithRetry(ctx, js, "existing-bucket", 3)
		require.NoError(t, err)
		require.Equal(t, "existing-bucket", kv.Bucket())
	})

	t.Run("reports a missing bucket without retrying", func(t *testing.T) {
		start := time.Now()
		_, err := OpenBucketWithRetry(ctx, js, "missing-bucket", 5)

		require.ErrorIs(t, err, jetstream.ErrBucketNotFound)
		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		cancelled, cancelNow := context.WithCancel(context.Background())
		cancelNow()

		_, err := OpenBucketWithRetry(cancelled, js, "existing-bucket", 3)
		require.Error(t, err)
	})
}
