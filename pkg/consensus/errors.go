// Copyright 2025 Certen Protocol
//
// Sentinel and distinguished errors for consensus operations. Soft rejects
// are plain bool returns per spec; a safety violation is the one truly fatal
// condition and is represented as a distinguished error type instead, so it
// can never be confused with an ordinary rejection and can never be silently
// swallowed by a caller that only checks a bool.

package consensus

import "fmt"

// SafetyViolationError reports that two distinct block hashes have both
// reached quorum at the same height. This is an abort-worthy condition: the
// node that observes it cannot safely continue participating in consensus.
type SafetyViolationError struct {
	Height      uint64
	Finalized   string
	Conflicting string
}

func (e *SafetyViolationError) Error() string {
	return fmt.Sprintf("safety violation at height %d: %s already finalized, %s also reached quorum",
		e.Height, e.Finalized, e.Conflicting)
}
