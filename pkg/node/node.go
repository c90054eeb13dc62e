// Copyright 2025 Certen Protocol
//
// Node - per-validator orchestration of signing, application state, block
// model, and consensus state. Owns its own block/body store, pending-tx
// buffer, and seen-vote set; exposes the public message-handling surface
// external callers (transactions, blocks, votes) drive.
//
// CONCURRENCY: Node assumes single-writer, serialized-ingress access, the
// same assumption the teacher repository's LedgerStore documents for its
// CometBFT commit thread. A future multi-threaded front-end must serialize
// ingress per node (e.g. a per-node mailbox); the mutex here only protects
// Go-level memory safety for pending-tx/height bookkeeping, it is not a
// scheduling primitive.

package node

import (
	"fmt"
	"sync"

	"github.com/certen/bftkv/pkg/appstate"
	"github.com/certen/bftkv/pkg/chain"
	"github.com/certen/bftkv/pkg/consensus"
	"github.com/certen/bftkv/pkg/metrics"
	"github.com/certen/bftkv/pkg/signing"
	"github.com/certen/bftkv/pkg/store"
)

// Config bundles everything needed to construct a Node.
type Config struct {
	NodeID       string
	Key          signing.KeyPair
	ChainID      string
	ValidatorSet []string
	Store        store.Store
	Metrics      *metrics.Recorder
}

// Node owns one application state, one consensus state, and the stores
// described in spec.md §4.5.
type Node struct {
	mu sync.Mutex

	nodeID  string
	key     signing.KeyPair
	chainID string

	consensus *consensus.State
	state     *appstate.State
	store     store.Store
	metrics   *metrics.Recorder

	pendingTxs      []appstate.Transaction
	currentHeight   uint64
	replayedHeights map[uint64]bool

	genesisHash string
}

// New constructs a Node with genesis pre-inserted and pre-finalized at
// height 0.
func New(cfg Config) (*Node, error) {
	genesis, err := chain.Genesis()
	if err != nil {
		return nil, fmt.Errorf("building genesis: %w", err)
	}
	genesisHash, err := genesis.Hash()
	if err != nil {
		return nil, fmt.Errorf("hashing genesis: %w", err)
	}

	n := &Node{
		nodeID:          cfg.NodeID,
		key:             cfg.Key,
		chainID:         cfg.ChainID,
		consensus:       consensus.New(cfg.ValidatorSet, cfg.ChainID, cfg.Metrics),
		state:           appstate.New(),
		store:           cfg.Store,
		metrics:         cfg.Metrics,
		replayedHeights: map[uint64]bool{0: true},
		genesisHash:     genesisHash,
	}

	if err := n.store.PutHeader(genesisHash, genesis); err != nil {
		return nil, fmt.Errorf("storing genesis header: %w", err)
	}
	if err := n.store.PutBody(genesisHash, chain.Body{}); err != nil {
		return nil, fmt.Errorf("storing genesis body: %w", err)
	}
	n.consensus.SeedFinalized(0, genesisHash)

	return n, nil
}

// NodeID returns this node's configured identifier.
func (n *Node) NodeID() string { return n.nodeID }

// PubKeyHex returns this node's validator identity.
func (n *Node) PubKeyHex() string { return n.key.PubKeyHex() }

// ChainID returns the chain id this node was constructed with.
func (n *Node) ChainID() string { return n.chainID }

// GenesisHash returns the content hash of this node's genesis header.
func (n *Node) GenesisHash() string { return n.genesisHash }

// CurrentHeight returns the maximum finalized height observed locally.
func (n *Node) CurrentHeight() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.currentHeight
}

// Header returns a stored header by hash. It satisfies chain.Validator.
func (n *Node) Header(hash string) (chain.Header, bool) {
	return n.store.Header(hash)
}

// Finalized returns the finalized block hash at height, if any.
func (n *Node) Finalized(height uint64) (string, bool) {
	return n.consensus.Finalized(height)
}

// StateCommitment returns the live application state's commitment.
func (n *Node) StateCommitment() (string, error) {
	return n.state.Commitment()
}

// ReceiveTransaction validates tx against a COPY of the live application
// state (so buffering never mutates live state) and, on success, appends it
// to the pending-transaction buffer.
func (n *Node) ReceiveTransaction(tx appstate.Transaction) bool {
	temp := n.state.Clone()
	if !temp.ApplyTx(tx, n.chainID) {
		return false
	}

	n.mu.Lock()
	n.pendingTxs = append(n.pendingTxs, tx)
	n.mu.Unlock()
	return true
}

// ProposeBlock builds a block over parentHash from the pending-transaction
// buffer, stores it, clears the buffer, and returns the resulting header.
// It returns (Header{}, false) if parentHash is unknown.
func (n *Node) ProposeBlock(parentHash string) (chain.Header, bool) {
	parent, ok := n.store.Header(parentHash)
	if !ok {
		return chain.Header{}, false
	}

	n.mu.Lock()
	txs := n.pendingTxs
	n.mu.Unlock()

	header, _, err := chain.BuildBlock(parent, txs, n.key, n.chainID)
	if err != nil {
		return chain.Header{}, false
	}

	hash, err := header.Hash()
	if err != nil {
		return chain.Header{}, false
	}
	if err := n.store.PutHeader(hash, header); err != nil {
		return chain.Header{}, false
	}
	if err := n.store.PutBody(hash, chain.Body(txs)); err != nil {
		return chain.Header{}, false
	}

	n.mu.Lock()
	n.pendingTxs = nil
	n.mu.Unlock()

	return header, true
}

// ReceiveBlock validates an externally delivered (header, body) pair and, on
// acceptance, stores it. See chain.ValidateReceivedBlock for the rule.
func (n *Node) ReceiveBlock(header chain.Header, body chain.Body) (bool, error) {
	ok, err := chain.ValidateReceivedBlock(n, header, body, n.chainID)
	if err != nil || !ok {
		return false, err
	}

	hash, err := header.Hash()
	if err != nil {
		return false, err
	}
	if err := n.store.PutHeader(hash, header); err != nil {
		return false, err
	}
	if err := n.store.PutBody(hash, body); err != nil {
		return false, err
	}
	return true, nil
}

// CreateVote builds and self-signs a vote for blockHash at height/phase. It
// does not ingest the vote; the caller (or a peer, via ReceiveVote) must
// deliver it separately.
func (n *Node) CreateVote(blockHash string, height uint64, phase consensus.Phase) (consensus.Vote, error) {
	vote := consensus.Vote{
		Validator: n.key.PubKeyHex(),
		Height:    height,
		BlockHash: blockHash,
		Phase:     phase,
	}
	sig, err := n.key.Sign(vote.Signable(), signing.ContextVote, n.chainID)
	if err != nil {
		return consensus.Vote{}, err
	}
	vote.Signature = sig
	return vote, nil
}

// ReceiveVote ingests vote with per-node idempotent dedup: a vote already
// seen (by "validator:height:phase:block_hash") is silently dropped and
// returns false. Otherwise it is delegated to the consensus state; on
// acceptance, a finalization triggered by this vote is replayed into the
// live application state.
//
// A non-nil error is a *consensus.SafetyViolationError and is fatal: the
// caller must treat this Node as unusable afterward.
func (n *Node) ReceiveVote(vote consensus.Vote) (bool, error) {
	key := seenVoteKey(vote)
	if n.store.SeenVote(key) {
		return false, nil
	}

	accepted, err := n.consensus.HandleVote(vote)
	if err != nil {
		return accepted, err
	}
	if !accepted {
		return false, nil
	}
	n.store.MarkVoteSeen(key)

	if finalizedHash, ok := n.consensus.Finalized(vote.Height); ok && finalizedHash == vote.BlockHash {
		n.finalizeBlock(vote.Height, finalizedHash)
	}

	return true, nil
}

// finalizeBlock replays a finalized block's transactions into the live
// application state and advances current_height. It is a no-op on a height
// already replayed, so repeated precommits for an already-finalized hash
// (spec.md §8 invariant 6) never re-apply transactions or double-count the
// finalization metric.
func (n *Node) finalizeBlock(height uint64, blockHash string) {
	n.mu.Lock()
	if n.replayedHeights[height] {
		n.mu.Unlock()
		return
	}
	n.replayedHeights[height] = true
	n.mu.Unlock()

	body, ok := n.store.Body(blockHash)
	if !ok {
		return
	}

	for _, tx := range body {
		n.state.ApplyTx(tx, n.chainID)
	}

	n.mu.Lock()
	if height > n.currentHeight {
		n.currentHeight = height
	}
	n.mu.Unlock()

	n.metrics.BlockFinalized(height)
}

func seenVoteKey(v consensus.Vote) string {
	return fmt.Sprintf("%s:%d:%s:%s", v.Validator, v.Height, v.Phase, v.BlockHash)
}
