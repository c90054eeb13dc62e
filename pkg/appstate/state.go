// Copyright 2025 Certen Protocol
//
// AppState - deterministic key/value application state.
//
// Commitment is the SHA-256 of the canonical JSON encoding of the map, so it
// depends only on final contents, never on the order keys were written in.

package appstate

import (
	"strings"
	"sync"

	"github.com/certen/bftkv/pkg/canonical"
	"github.com/certen/bftkv/pkg/signing"
)

// State is a key/value map guarded for concurrent read access; Commitment
// encodes it in sorted key order. It is mutated only by ApplyTx.
type State struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty application state.
func New() *State {
	return &State{data: make(map[string]string)}
}

// Clone returns an independent copy of s, for optimistic validation that must
// not mutate the live state (Node.ReceiveTransaction).
func (s *State) Clone() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]string, len(s.data))
	for k, v := range s.data {
		cp[k] = v
	}
	return &State{data: cp}
}

// Get returns the value at key and whether it was present.
func (s *State) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// ApplyTx validates and applies tx, per spec:
//  1. tx.Key must start with tx.Sender + "/" (ownership).
//  2. tx.Signature must verify against tx.Sender under context "TX".
//  3. On success, state[tx.Key] = tx.Value.
//
// Invalid transactions are rejected silently: no partial mutation occurs.
func (s *State) ApplyTx(tx Transaction, chainID string) bool {
	if !strings.HasPrefix(tx.Key, tx.Sender+"/") {
		return false
	}
	if !signing.Verify(tx.Sender, tx.Signature, tx.signable(), signing.ContextTx, chainID) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tx.Key] = tx.Value
	return true
}

// Commitment returns the SHA-256 hex digest of the canonical JSON encoding of
// the map's current contents.
func (s *State) Commitment() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return canonical.HashHex(s.data)
}
