// Package sensor defines the status source a drill session polls and the
// cancellable loop that polls it.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/target-drill/internal/target"
)

// ErrCancelled is returned when a poll loop is deactivated before detecting
// anything.
var ErrCancelled = errors.New("poll cancelled")

// NeutralStatus holds the contact readings of the two sensors flanking the
// neutral zone. Zero on both sides means the subject is back at center.
type NeutralStatus struct {
	Left  int
	Right int
}

// Clear reports whether both flanks read zero contact.
func (s NeutralStatus) Clear() bool {
	return s.Left == 0 && s.Right == 0
}

// Sensor is the external status source. Either query may fail with a
// transport error.
type Sensor interface {
	NeutralStatus(ctx context.Context) (NeutralStatus, error)
	TargetStatus(ctx context.Context, id target.ID) (bool, error)
}

// SensorReadError wraps a failed status query.
type SensorReadError struct {
	Target target.ID
	Err    error
}

func (e *SensorReadError) Error() string {
	return fmt.Sprintf("read sensor status for %s: %v", e.Target, e.Err)
}

func (e *SensorReadError) Unwrap() error {
	return e.Err
}

// DetectionEvent is the single confirmed observation that ends a poll loop.
type DetectionEvent struct {
	Target target.ID
	At     time.Time // when the hit was read; the leg ends here
	Polls  int
}
