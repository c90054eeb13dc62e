// Copyright 2025 Certen Protocol
//
// Store - the persistence interface a Node uses for its block store, body
// store, and seen-vote set. The in-memory spec semantics (§4.5) are exactly
// MemStore; KVStore gives the same node logic a durable backend without
// changing anything above this package.

package store

import "github.com/certen/bftkv/pkg/chain"

// Store is everything Node needs to persist across its three maps.
type Store interface {
	// Header/Body: the block store and body store, keyed by header hash.
	PutHeader(hash string, h chain.Header) error
	Header(hash string) (chain.Header, bool)
	PutBody(hash string, b chain.Body) error
	Body(hash string) (chain.Body, bool)

	// SeenVote records and checks the idempotency key
	// "validator:height:phase:block_hash" (§4.5).
	SeenVote(key string) bool
	MarkVoteSeen(key string)
}
