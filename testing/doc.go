// Package testing provides test utilities for the waged library.
//
// This package offers in-memory fixture builders for cluster contexts and an
// embedded NATS server for testing KV-backed assignment sources. It follows Go's
// convention of providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - ContextBuilder: Literal baseline / best possible fixtures without mocks
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//
// Example usage:
//
//	import (
//	    "testing"
//	    wagedtest "github.com/arloliu/waged/testing"
//	)
//
//	func TestMyConstraint(t *testing.T) {
//	    cc := wagedtest.NewContextBuilder(t).
//	        BestPossible("db", "db_0", "node-a", "MASTER").
//	        Baseline("db", "db_0", "node-b", "MASTER").
//	        Build()
//	    // Score candidates against cc
//	}
package testing
