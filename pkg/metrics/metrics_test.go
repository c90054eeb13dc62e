// Copyright 2025 Certen Protocol

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "node-1")

	r.VoteProcessed("prevote")
	r.VoteProcessed("prevote")
	r.VoteProcessed("precommit")
	r.BlockFinalized(3)
	r.SafetyViolation()

	if got := testutil.ToFloat64(r.votesProcessed.WithLabelValues("prevote")); got != 2 {
		t.Fatalf("prevote count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.votesProcessed.WithLabelValues("precommit")); got != 1 {
		t.Fatalf("precommit count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.blocksFinalized); got != 1 {
		t.Fatalf("blocksFinalized = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.finalizedHeight); got != 3 {
		t.Fatalf("finalizedHeight = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.safetyViolations); got != 1 {
		t.Fatalf("safetyViolations = %v, want 1", got)
	}
}

func TestRecorder_NilReceiverIsNoOp(t *testing.T) {
	var r *Recorder
	r.VoteProcessed("prevote")
	r.BlockFinalized(1)
	r.SafetyViolation()
}
