// Copyright 2025 Certen Protocol
//
// MemStore - an in-memory Store, equivalent to the bare maps the spec
// describes directly on Node.

package store

import (
	"sync"

	"github.com/certen/bftkv/pkg/chain"
)

// MemStore is a Store backed by plain Go maps guarded by a mutex.
type MemStore struct {
	mu        sync.RWMutex
	headers   map[string]chain.Header
	bodies    map[string]chain.Body
	seenVotes map[string]struct{}
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		headers:   make(map[string]chain.Header),
		bodies:    make(map[string]chain.Body),
		seenVotes: make(map[string]struct{}),
	}
}

func (m *MemStore) PutHeader(hash string, h chain.Header) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headers[hash] = h
	return nil
}

func (m *MemStore) Header(hash string) (chain.Header, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.headers[hash]
	return h, ok
}

func (m *MemStore) PutBody(hash string, b chain.Body) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[hash] = b
	return nil
}

func (m *MemStore) Body(hash string) (chain.Body, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bodies[hash]
	return b, ok
}

func (m *MemStore) SeenVote(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.seenVotes[key]
	return ok
}

func (m *MemStore) MarkVoteSeen(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seenVotes[key] = struct{}{}
}
