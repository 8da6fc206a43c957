// Package hash provides deterministic hashing helpers for candidate ordering.
package hash

import "github.com/zeebo/xxh3"

// TieBreaker orders equally scored candidate nodes deterministically.
//
// Ordering by node name alone would send every tied replica to the same
// lexicographically smallest node. Hashing the (replica, node) pair spreads
// ties across nodes while staying stable for identical inputs.
type TieBreaker struct {
	seed uint64
}

// NewTieBreaker creates a tie breaker.
//
// Parameters:
//   - seed: Hash seed (0 uses the unseeded XXH3 variant)
//
// Returns:
//   - TieBreaker: Stateless value, safe for concurrent use
func NewTieBreaker(seed uint64) TieBreaker {
	return TieBreaker{seed: seed}
}

// Key returns the 64-bit ordering key of node for replicaKey.
//
// The replica key is hashed first and its hash seeds the node hash, so no
// intermediate concatenated string is built.
//
// Parameters:
//   - replicaKey: Replica identity (e.g., "2:db4:db_0MASTER")
//   - node: Node identity
//
// Returns:
//   - uint64: Ordering key (lower sorts first)
func (tb TieBreaker) Key(replicaKey, node string) uint64 {
	var h uint64
	if tb.seed != 0 {
		h = xxh3.HashStringSeed(replicaKey, tb.seed)
	} else {
		h = xxh3.HashString(replicaKey)
	}

	return xxh3.HashStringSeed(node, h)
}

// Less reports whether node a sorts before node b for replicaKey.
//
// Equal hashes fall back to name order.
func (tb TieBreaker) Less(replicaKey, a, b string) bool {
	ka, kb := tb.Key(replicaKey, a), tb.Key(replicaKey, b)
	if ka != kb {
		return ka < kb
	}

	return a < b
}
