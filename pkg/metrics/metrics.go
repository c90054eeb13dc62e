// Copyright 2025 Certen Protocol
//
// Node/consensus observability counters. This is ambient instrumentation,
// not the logging/summary-output product that sits outside the core (see
// spec.md §1): it exposes raw counters for an external scraper, nothing that
// formats or prints a human-facing line.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder bundles the counters/gauges a ConsensusState and Node report to.
// A nil *Recorder is valid everywhere it's accepted; every method is a no-op
// on a nil receiver so wiring metrics is always optional.
type Recorder struct {
	votesProcessed   *prometheus.CounterVec
	blocksFinalized  prometheus.Counter
	safetyViolations prometheus.Counter
	finalizedHeight  prometheus.Gauge
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer, nodeID string) *Recorder {
	constLabels := prometheus.Labels{"node_id": nodeID}
	r := &Recorder{
		votesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "bftkv",
			Name:        "votes_processed_total",
			Help:        "Votes accepted by the consensus state machine, by phase.",
			ConstLabels: constLabels,
		}, []string{"phase"}),
		blocksFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bftkv",
			Name:        "blocks_finalized_total",
			Help:        "Heights finalized by this node.",
			ConstLabels: constLabels,
		}),
		safetyViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bftkv",
			Name:        "safety_violations_total",
			Help:        "Safety violations observed by this node.",
			ConstLabels: constLabels,
		}),
		finalizedHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bftkv",
			Name:        "finalized_height",
			Help:        "Highest height finalized by this node.",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(r.votesProcessed, r.blocksFinalized, r.safetyViolations, r.finalizedHeight)
	return r
}

func (r *Recorder) VoteProcessed(phase string) {
	if r == nil {
		return
	}
	r.votesProcessed.WithLabelValues(phase).Inc()
}

func (r *Recorder) BlockFinalized(height uint64) {
	if r == nil {
		return
	}
	r.blocksFinalized.Inc()
	r.finalizedHeight.Set(float64(height))
}

func (r *Recorder) SafetyViolation() {
	if r == nil {
		return
	}
	r.safetyViolations.Inc()
}
