// Package exitcode defines named exit codes for the target-drill CLI.
//
// Each code maps a session outcome to a numeric value recognized by shell
// scripts and CI pipelines.
package exitcode

// Exit code constants.
const (
	Success     = 0   // Every target completed
	Error       = 1   // Invalid args, sensor unavailable, misconfiguration
	Stopped     = 2   // Session stopped by the operator
	Defect      = 3   // Session ended on an invariant violation
	Interrupted = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Stopped:
		return "Stopped"
	case Defect:
		return "Defect"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

// ForSession maps a finished session onto an exit code. An interrupt wins
// over a stop, and a defect wins over both.
func ForSession(stopped, interrupted bool, defect error) int {
	switch {
	case defect != nil:
		return Defect
	case interrupted:
		return Interrupted
	case stopped:
		return Stopped
	default:
		return Success
	}
}
