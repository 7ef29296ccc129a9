// Package result folds a session's timed legs into its final summary.
package result

import "github.com/CodexForgeBR/target-drill/internal/timing"

// SessionResult is the read-only outcome of a session.
type SessionResult struct {
	SessionID    string               `json:"session_id" yaml:"session_id"`
	Stopped      bool                 `json:"stopped" yaml:"stopped"`
	Legs         []timing.Interaction `json:"legs" yaml:"legs"`
	TotalSeconds float64              `json:"total_seconds" yaml:"total_seconds"`
}

// Finalize copies legs and sums their elapsed times in emission order.
// Empty input yields a zero total and an empty, non-nil leg list.
func Finalize(legs []timing.Interaction) SessionResult {
	out := make([]timing.Interaction, len(legs))
	copy(out, legs)

	total := 0.0
	for _, leg := range out {
		total += leg.ElapsedSeconds
	}

	return SessionResult{
		Legs:         out,
		TotalSeconds: total,
	}
}

// Average returns the mean leg time, or 0 when there are no legs.
func (r SessionResult) Average() float64 {
	if len(r.Legs) == 0 {
		return 0
	}
	return r.TotalSeconds / float64(len(r.Legs))
}

// Fastest returns the shortest leg; the earliest one wins ties.
func (r SessionResult) Fastest() (timing.Interaction, bool) {
	return r.pick(func(a, b float64) bool { return a < b })
}

// Slowest returns the longest leg; the earliest one wins ties.
func (r SessionResult) Slowest() (timing.Interaction, bool) {
	return r.pick(func(a, b float64) bool { return a > b })
}

func (r SessionResult) pick(better func(a, b float64) bool) (timing.Interaction, bool) {
	if len(r.Legs) == 0 {
		return timing.Interaction{}, false
	}
	best := r.Legs[0]
	for _, leg := range r.Legs[1:] {
		if better(leg.ElapsedSeconds, best.ElapsedSeconds) {
			best = leg
		}
	}
	return best, true
}
