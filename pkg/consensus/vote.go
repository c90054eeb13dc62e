// Copyright 2025 Certen Protocol
//
// Vote - a validator's signed prevote or precommit for a block hash at a
// height.

package consensus

// Phase is the closed set of vote kinds. Represented as a sum type at the
// type boundary; the wire encoding still uses the lowercase strings below.
type Phase string

const (
	PhasePrevote   Phase = "prevote"
	PhasePrecommit Phase = "precommit"
)

// Vote is a validator's signed statement about a block hash at a height.
// Signature is over the canonical encoding of signable() under context
// "VOTE". There is no view/round field: the protocol cannot distinguish
// multiple voting rounds at the same height (§9 open question #4).
type Vote struct {
	Validator string `json:"validator"`
	Height    uint64 `json:"height"`
	BlockHash string `json:"block_hash"`
	Phase     Phase  `json:"phase"`
	Signature string `json:"signature"`
}

// Signable returns the portion of the vote that is signed/verified. Exported
// so pkg/node can sign a vote with exactly the payload HandleVote will
// later verify.
func (v Vote) Signable() any {
	return map[string]any{
		"validator":  v.Validator,
		"height":     v.Height,
		"block_hash": v.BlockHash,
		"phase":      v.Phase,
	}
}
