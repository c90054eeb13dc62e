// Copyright 2025 Certen Protocol
//
// KVStore - a Store backed by a cometbft-db handle, namespacing its three
// logical maps the way pkg/ledger namespaces its CometBFT-backed keys.

package store

import (
	"encoding/json"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/bftkv/pkg/chain"
)

var (
	prefixHeader = []byte("blk:")
	prefixBody   = []byte("bdy:")
	prefixVote   = []byte("vote:")
)

// KVStore adapts a dbm.DB (e.g. dbm.NewMemDB() or dbm.NewGoLevelDB(...)) to
// the Store interface.
type KVStore struct {
	db dbm.DB
}

// NewKVStore wraps db as a Store.
func NewKVStore(db dbm.DB) *KVStore {
	return &KVStore{db: db}
}

func headerKey(hash string) []byte { return append(append([]byte{}, prefixHeader...), hash...) }
func bodyKey(hash string) []byte   { return append(append([]byte{}, prefixBody...), hash...) }
func voteKey(key string) []byte    { return append(append([]byte{}, prefixVote...), key...) }

func (s *KVStore) PutHeader(hash string, h chain.Header) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return s.db.SetSync(headerKey(hash), raw)
}

func (s *KVStore) Header(hash string) (chain.Header, bool) {
	raw, err := s.db.Get(headerKey(hash))
	if err != nil || raw == nil {
		return chain.Header{}, false
	}
	var h chain.Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return chain.Header{}, false
	}
	return h, true
}

func (s *KVStore) PutBody(hash string, b chain.Body) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return s.db.SetSync(bodyKey(hash), raw)
}

func (s *KVStore) Body(hash string) (chain.Body, bool) {
	raw, err := s.db.Get(bodyKey(hash))
	if err != nil || raw == nil {
		return nil, false
	}
	var b chain.Body
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false
	}
	return b, true
}

func (s *KVStore) SeenVote(key string) bool {
	raw, err := s.db.Get(voteKey(key))
	return err == nil && raw != nil
}

func (s *KVStore) MarkVoteSeen(key string) {
	_ = s.db.SetSync(voteKey(key), []byte{1})
}
