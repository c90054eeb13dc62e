// Copyright 2025 Certen Protocol
//
// Block header/body model - content-addressed, proposer-signed headers over
// a body of ordered transactions.

package chain

import (
	"github.com/certen/bftkv/pkg/appstate"
	"github.com/certen/bftkv/pkg/canonical"
)

// GenesisParentHash is the fixed parent_hash of the height-0 genesis header:
// 64 ASCII zeroes.
const GenesisParentHash = "0000000000000000000000000000000000000000000000000000000000000000"

// GenesisProposer is the fixed, never-signature-verified proposer of genesis.
const GenesisProposer = "genesis"

// Header is a block header. Hash is content-addressed over every field
// except Signature; Signature is produced over that same encoding under
// context "HEADER".
type Header struct {
	ParentHash string `json:"parent_hash"`
	Height     uint64 `json:"height"`
	StateHash  string `json:"state_hash"`
	Proposer   string `json:"proposer"`
	Signature  string `json:"signature"`
}

// Body is an ordered sequence of transactions belonging to a header.
type Body []appstate.Transaction

// signable returns the portion of the header that is hashed/signed.
func (h Header) signable() any {
	return map[string]any{
		"parent_hash": h.ParentHash,
		"height":      h.Height,
		"state_hash":  h.StateHash,
		"proposer":    h.Proposer,
	}
}

// Hash returns the content address of h: SHA-256 hex of the canonical
// encoding of its signable fields (Signature excluded).
func (h Header) Hash() (string, error) {
	return canonical.HashHex(h.signable())
}

// Genesis returns the deterministic, pre-finalized height-0 header for an
// application that starts from an empty state.
func Genesis() (Header, error) {
	stateHash, err := appstate.New().Commitment()
	if err != nil {
		return Header{}, err
	}
	return Header{
		ParentHash: GenesisParentHash,
		Height:     0,
		StateHash:  stateHash,
		Proposer:   GenesisProposer,
		Signature:  "",
	}, nil
}
