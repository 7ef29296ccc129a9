package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/target-drill/internal/result"
	"github.com/CodexForgeBR/target-drill/internal/target"
)

// State is the phase of a drill session.
type State string

const (
	StateAwaitingStart  State = "awaiting_start"
	StateTargetActive   State = "target_active"
	StateNeutralPending State = "neutral_pending"
	StateComplete       State = "complete"
)

// Light is the display color of a board position.
type Light string

const (
	LightRed    Light = "red"    // idle target
	LightGreen  Light = "green"  // target to strike
	LightYellow Light = "yellow" // waiting for return to center
	LightBlue   Light = "blue"   // center idle
)

// Snapshot is a read-only copy of the session state handed to renderers.
type Snapshot struct {
	SessionID   string              `json:"session_id"`
	State       State               `json:"state"`
	Index       int                 `json:"index"`
	Total       int                 `json:"total"`
	Current     target.ID           `json:"current,omitempty"`
	Lights      map[target.ID]Light `json:"lights"`
	Legs        int                 `json:"legs"`
	SensorError string              `json:"sensor_error,omitempty"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Observer receives every transition. Callbacks run while the session lock
// is held, in transition order, and must not call back into the Machine.
type Observer interface {
	OnSnapshot(s Snapshot)
	OnComplete(r result.SessionResult)
}

// ErrAlreadyStarted is returned by Start on a session that already began or
// ended.
var ErrAlreadyStarted = errors.New("session already started")

// InvariantViolation reports a logic defect, such as a negative leg time or
// an out-of-range sequence index. It ends the session.
type InvariantViolation struct {
	Reason string
	Err    error
}

func (e *InvariantViolation) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invariant violation: %s: %v", e.Reason, e.Err)
	}
	return "invariant violation: " + e.Reason
}

func (e *InvariantViolation) Unwrap() error {
	return e.Err
}
