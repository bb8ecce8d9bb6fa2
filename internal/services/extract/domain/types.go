// Package domain holds the extraction pipeline's state, counters and ports
package domain

import (
	"time"

	"wdlabels/internal/core/skip"
)

// State is the pipeline lifecycle: NotStarted -> Running -> Draining -> Closed
type State uint32

const (
	// StateNotStarted is before the codecs are launched
	StateNotStarted State = iota
	// StateRunning is while the main loop reads lines
	StateRunning
	// StateDraining is while the shutdown contract runs
	StateDraining
	// StateClosed is terminal; both ends have been waited on
	StateClosed
)

// States lists every state in lifecycle order
var States = []State{StateNotStarted, StateRunning, StateDraining, StateClosed}

// String returns the state name used in logs and metrics
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateNames returns the names of States, for metric label resets
func StateNames() []string {
	out := make([]string, len(States))
	for i, s := range States {
		out[i] = s.String()
	}
	return out
}

// Stats are the counters of one run, owned by the main loop and returned by Run
type Stats struct {
	Lines        int64
	EntitiesSeen int64
	// TuplesExtracted counts tuples the compressor accepted
	TuplesExtracted int64
	// TuplesLost counts tuples formatted but still buffered when the compressor input closed
	TuplesLost int64
	// Rewritten counts tuples whose text had tabs or newlines rewritten for the output format
	Rewritten int64
	BytesIn   int64
	// BytesOut is formatted bytes the compressor accepted, before compression
	BytesOut int64
	Skipped  skip.Counts
	Elapsed  time.Duration
}

// Rate returns entities seen per second over Elapsed
func (s Stats) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.EntitiesSeen) / s.Elapsed.Seconds()
}
