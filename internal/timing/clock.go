// Package timing turns pairs of timestamps into timed legs.
package timing

import (
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/target-drill/internal/target"
)

// ErrNegativeElapsed is returned when a leg would end before it started.
var ErrNegativeElapsed = errors.New("negative elapsed time")

// Clock supplies monotonic timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock with its monotonic component.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Interaction is one timed leg of a session.
type Interaction struct {
	Description    string  `json:"description" yaml:"description"`
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

// Outbound describes the leg from the neutral zone to t.
func Outbound(t target.ID) string {
	return fmt.Sprintf("%s to %s", target.Center, t)
}

// Inbound describes the leg from t back to the neutral zone.
func Inbound(t target.ID) string {
	return fmt.Sprintf("%s to %s", t, target.Center)
}

// Settle converts the interval between previous and now into an Interaction.
// Full precision is retained. A negative interval is a defect and yields
// ErrNegativeElapsed.
func Settle(previous, now time.Time, description string) (Interaction, error) {
	d := now.Sub(previous)
	if d < 0 {
		return Interaction{}, fmt.Errorf("%s: %w (%s)", description, ErrNegativeElapsed, d)
	}
	return Interaction{
		Description:    description,
		ElapsedSeconds: d.Seconds(),
	}, nil
}

// Stopwatch remembers the last leg boundary of a session.
// It is not safe for concurrent use; the session owns it.
type Stopwatch struct {
	clock  Clock
	last   time.Time
	marked bool
}

// NewStopwatch returns a Stopwatch reading from clock.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Stopwatch{clock: clock}
}

// Mark records the current timestamp as a leg boundary without emitting a leg.
func (s *Stopwatch) Mark() time.Time {
	s.last = s.clock.Now()
	s.marked = true
	return s.last
}

// Marked reports whether a first boundary has been recorded.
func (s *Stopwatch) Marked() bool {
	return s.marked
}

// Lap closes the leg that started at the previous boundary and opens the next
// one. Before the first Mark it only records the boundary and reports false.
// On error the previous boundary is kept.
func (s *Stopwatch) Lap(description string) (Interaction, bool, error) {
	return s.LapAt(description, s.clock.Now())
}

// LapAt is Lap with the boundary taken at now instead of the clock's current
// reading.
func (s *Stopwatch) LapAt(description string, now time.Time) (Interaction, bool, error) {
	if !s.marked {
		s.last = now
		s.marked = true
		return Interaction{}, false, nil
	}
	leg, err := Settle(s.last, now, description)
	if err != nil {
		return Interaction{}, false, err
	}
	s.last = now
	return leg, true, nil
}
