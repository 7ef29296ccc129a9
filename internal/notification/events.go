package notification

import (
	"fmt"

	"github.com/CodexForgeBR/target-drill/internal/logging"
	"github.com/CodexForgeBR/target-drill/internal/result"
)

// Event types sent at the end of a session.
const (
	EventCompleted   = "completed"
	EventStopped     = "stopped"
	EventDefect      = "defect"
	EventInterrupted = "interrupted"
)

// EventFor picks the event describing how a session ended.
func EventFor(res result.SessionResult, interrupted bool, defect error) string {
	switch {
	case defect != nil:
		return EventDefect
	case interrupted:
		return EventInterrupted
	case res.Stopped:
		return EventStopped
	default:
		return EventCompleted
	}
}

// FormatEvent creates a notification message for the given event.
func FormatEvent(event string, res result.SessionResult, exitCode int) string {
	total := logging.FormatSeconds(res.TotalSeconds)
	legs := len(res.Legs)

	switch event {
	case EventCompleted:
		avg := "n/a"
		if legs > 0 {
			avg = logging.FormatSeconds(res.Average())
		}
		return fmt.Sprintf("✅ target-drill [%s] completed: %d legs in %s, average %s (exit %d)", res.SessionID, legs, total, avg, exitCode)
	case EventStopped:
		return fmt.Sprintf("⏹️ target-drill [%s] stopped after %d legs in %s (exit %d)", res.SessionID, legs, total, exitCode)
	case EventDefect:
		return fmt.Sprintf("🚨 target-drill [%s] aborted on an invariant violation after %d legs (exit %d)", res.SessionID, legs, exitCode)
	case EventInterrupted:
		return fmt.Sprintf("⏸️ target-drill [%s] interrupted after %d legs in %s (exit %d)", res.SessionID, legs, total, exitCode)
	default:
		return fmt.Sprintf("ℹ️ target-drill [%s] event: %s (exit %d)", res.SessionID, event, exitCode)
	}
}
