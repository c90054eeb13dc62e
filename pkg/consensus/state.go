// Copyright 2025 Certen Protocol
//
// ConsensusState - per-height tallies of prevotes/precommits, the
// finalization rule, and the safety-violation detector.
//
// Quorum is strict majority, floor(N/2)+1, chosen for pedagogic clarity over
// a production BFT threshold of ceil(2N/3)+1 (§9 open question #2): it is
// safe only against non-equivocating validators, but guarantees uniqueness
// of any finalizable hash per height because two disjoint strict majorities
// cannot coexist in the same validator set.

package consensus

import (
	"sort"
	"sync"

	"github.com/certen/bftkv/pkg/metrics"
	"github.com/certen/bftkv/pkg/signing"
)

// State holds the validator set, chain id, and per-height vote tallies for
// one chain. It has no notion of node identity or message dedup: that lives
// in pkg/node, which sits in front of it.
type State struct {
	mu sync.Mutex

	validatorSet map[string]struct{}
	chainID      string

	prevotes   map[uint64][]Vote
	precommits map[uint64][]Vote
	finalized  map[uint64]string

	metrics *metrics.Recorder
}

// New creates a ConsensusState for the given validator set and chain id.
// metrics may be nil.
func New(validatorSet []string, chainID string, m *metrics.Recorder) *State {
	set := make(map[string]struct{}, len(validatorSet))
	for _, v := range validatorSet {
		set[v] = struct{}{}
	}
	return &State{
		validatorSet: set,
		chainID:      chainID,
		prevotes:     make(map[uint64][]Vote),
		precommits:   make(map[uint64][]Vote),
		finalized:    make(map[uint64]string),
		metrics:      m,
	}
}

// ChainID returns the chain id this state was constructed with.
func (s *State) ChainID() string { return s.chainID }

// Finalized returns the finalized block hash at height, if any.
func (s *State) Finalized(height uint64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.finalized[height]
	return h, ok
}

// SeedFinalized directly records hash as finalized at height, bypassing the
// quorum path. Genesis (height 0) is never arrived at via voting, so Node
// uses this to seed it as pre-finalized; outside of genesis seeding,
// production code should never call it for a non-zero height.
func (s *State) SeedFinalized(height uint64, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized[height] = hash
}

// AppendPrecommitForTest appends a precommit to the tally without signature
// verification, to inject the forged precommits of the spec.md §8 S3
// conflicting-finalization scenario.
func (s *State) AppendPrecommitForTest(v Vote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.precommits[v.Height] = append(s.precommits[v.Height], v)
}

// HandleVote validates and tallies vote:
//  1. reject if vote.Validator is not in the validator set;
//  2. reject if vote.Signature does not verify under "VOTE";
//  3. append to the phase list for its height;
//  4. on precommit, immediately invoke TryFinalize.
//
// It returns (accepted, safetyViolation). A non-nil safetyViolation is
// fatal: the caller must treat this State as unusable afterward.
func (s *State) HandleVote(v Vote) (bool, error) {
	if _, ok := s.validatorSet[v.Validator]; !ok {
		return false, nil
	}
	if !signing.Verify(v.Validator, v.Signature, v.Signable(), signing.ContextVote, s.chainID) {
		return false, nil
	}

	s.mu.Lock()
	switch v.Phase {
	case PhasePrevote:
		s.prevotes[v.Height] = append(s.prevotes[v.Height], v)
	case PhasePrecommit:
		s.precommits[v.Height] = append(s.precommits[v.Height], v)
	default:
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()

	s.metrics.VoteProcessed(string(v.Phase))

	if v.Phase == PhasePrecommit {
		if _, _, err := s.TryFinalize(v.Height); err != nil {
			return true, err
		}
	}

	return true, nil
}

// TryFinalize tallies precommits at height and finalizes the hash that
// reaches strict-majority quorum. It returns the finalized hash (existing or
// newly set) and ok=false if none exists yet. A non-nil error is a
// SafetyViolationError: two different hashes both reached quorum.
//
// precommits[height] is never pruned, so the already-finalized hash's votes
// stay in the tally alongside any later, conflicting votes. The full set of
// qualifying hashes is therefore scanned and sorted before any decision is
// made, so the outcome never depends on map iteration order (spec.md §4.4).
func (s *State) TryFinalize(height uint64) (string, bool, error) {
	hash, ok, violation := s.tryFinalizeLocked(height)
	if violation != nil {
		s.metrics.SafetyViolation()
		return "", false, violation
	}
	return hash, ok, nil
}

func (s *State) tryFinalizeLocked(height uint64) (string, bool, *SafetyViolationError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	votes := s.precommits[height]
	if len(votes) == 0 {
		existing, ok := s.finalized[height]
		return existing, ok, nil
	}

	tally := make(map[string]int, len(votes))
	for _, v := range votes {
		tally[v.BlockHash]++
	}

	quorum := len(s.validatorSet)/2 + 1

	qualifying := make([]string, 0, 2)
	for hash, count := range tally {
		if count >= quorum {
			qualifying = append(qualifying, hash)
		}
	}

	switch len(qualifying) {
	case 0:
		existing, ok := s.finalized[height]
		return existing, ok, nil
	case 1:
		hash := qualifying[0]
		if prev, ok := s.finalized[height]; ok && prev != hash {
			return "", false, &SafetyViolationError{Height: height, Finalized: prev, Conflicting: hash}
		}
		s.finalized[height] = hash
		return hash, true, nil
	default:
		sort.Strings(qualifying)
		finalized := qualifying[0]
		if prev, ok := s.finalized[height]; ok {
			finalized = prev
		}
		conflicting := qualifying[0]
		if conflicting == finalized {
			conflicting = qualifying[1]
		}
		return "", false, &SafetyViolationError{Height: height, Finalized: finalized, Conflicting: conflicting}
	}
}
