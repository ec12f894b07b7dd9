package search

import (
	"time"
)

// State is the lifecycle of a search session.
//
//	Running -> Found     -> Stopped
//	Running -> Exhausted -> Stopped
//	Running -> Cancelled -> Stopped
type State int32

const (
	Idle State = iota
	Running
	Found
	Exhausted
	Cancelled
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Result is the outcome of a completed search.
type Result struct {
	// State is one of Found, Exhausted, or Cancelled.
	State    State
	Index    uint64
	Password string
	// Attempts is the number of candidates checked.
	Attempts uint64
	// Rejected is the number of candidates that passed the check byte but failed confirmation.
	Rejected uint64
	Workers  int
	// Faults is the number of workers that died mid-search.
	Faults   int
	Strategy Strategy
	Elapsed  time.Duration
}

// Found reports whether a password was recovered.
func (r *Result) Found() bool {
	return r.State == Found
}

// Complete reports whether every index in the searched range was attempted.
// A round-robin worker that faults leaves its shard unexplored, so exhaustion with faults doesn't prove the password is outside the keyspace.
func (r *Result) Complete() bool {
	return r.State == Exhausted && r.Faults == 0
}

// Progress is a point in time snapshot of a running search.
type Progress struct {
	Attempts uint64
	Total    uint64
	Elapsed  time.Duration
}

// Rate is the number of attempts per second so far.
func (p Progress) Rate() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Attempts) / p.Elapsed.Seconds()
}
