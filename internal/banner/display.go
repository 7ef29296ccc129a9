// Package banner provides colored banner display functions for the
// target-drill CLI.
//
// Banners frame the start and the end of a session: the drill parameters,
// the timed legs, and the reason a session ended early. Output goes to stdout
// unless redirected with SetOutput.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/target-drill/internal/logging"
	"github.com/CodexForgeBR/target-drill/internal/result"
	"github.com/CodexForgeBR/target-drill/internal/session"
	"github.com/CodexForgeBR/target-drill/internal/target"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetOutput redirects banner output. Passing nil restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

const rule = "═══════════════════════════════════════════════════"

// write prints all lines as one block so banners never interleave with log
// lines from other goroutines.
func write(lines ...string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}

// PrintStartupBanner displays the startup banner with the drill parameters.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  target-drill - Reaction Drill
//	═══════════════════════════════════════════════════
//	  Session:    6f1c0e9a-...
//	  Sensor:     serial (/dev/ttyACM0)
//	  Targets:    L1=2 R1=0 L2=0 R2=1 (3 total)
//	  Seed:       42
//	═══════════════════════════════════════════════════
func PrintStartupBanner(sessionID, sensorDesc string, counts target.Counts, seed int64) {
	sep := headerColor(rule)
	write(
		sep,
		headerColor("  target-drill - Reaction Drill"),
		sep,
		fmt.Sprintf("  Session:    %s", sessionID),
		fmt.Sprintf("  Sensor:     %s", sensorDesc),
		fmt.Sprintf("  Targets:    %s (%d total)", counts, counts.Total()),
		fmt.Sprintf("  Seed:       %d", seed),
		sep,
	)
}

// PrintResultBanner displays every timed leg and the session statistics.
// A stopped session gets a warning header instead of the success header.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Drill complete
//	═══════════════════════════════════════════════════
//	   1. Center to L1        0.412s
//	   2. L1 to Center        0.377s
//	  Legs:       2
//	  Total:      0.789s
//	  Average:    0.395s
//	  Fastest:    L1 to Center (0.377s)
//	  Slowest:    Center to L1 (0.412s)
//	═══════════════════════════════════════════════════
func PrintResultBanner(res result.SessionResult) {
	sep := successColor(rule)
	header := successColor("  ✓ Drill complete")
	if res.Stopped {
		sep = warnColor(rule)
		header = warnColor("  ⚠ Drill stopped")
	}

	lines := []string{sep, header, sep}
	for i, leg := range res.Legs {
		lines = append(lines, fmt.Sprintf("  %2d. %-18s %s", i+1, leg.Description, logging.FormatSeconds(leg.ElapsedSeconds)))
	}
	lines = append(lines,
		fmt.Sprintf("  Legs:       %d", len(res.Legs)),
		fmt.Sprintf("  Total:      %s", logging.FormatSeconds(res.TotalSeconds)),
	)
	if len(res.Legs) > 0 {
		fastest, _ := res.Fastest()
		slowest, _ := res.Slowest()
		lines = append(lines,
			fmt.Sprintf("  Average:    %s", logging.FormatSeconds(res.Average())),
			fmt.Sprintf("  Fastest:    %s (%s)", fastest.Description, logging.FormatSeconds(fastest.ElapsedSeconds)),
			fmt.Sprintf("  Slowest:    %s (%s)", slowest.Description, logging.FormatSeconds(slowest.ElapsedSeconds)),
		)
	}
	lines = append(lines, sep)
	write(lines...)
}

// PrintDefectBanner displays the invariant violation that ended a session.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ SESSION ABORTED
//	═══════════════════════════════════════════════════
//	  Reason:
//	  invariant violation: leg timing: ...
//	  Legs recorded before the fault are listed above.
//	═══════════════════════════════════════════════════
func PrintDefectBanner(err error) {
	sep := errorColor(rule)
	write(
		sep,
		errorColor("  ✗ SESSION ABORTED"),
		sep,
		"  Reason:",
		"  "+err.Error(),
		"  Legs recorded before the fault are listed above.",
		sep,
	)
}

// PrintInterruptedBanner displays when a session is ended by a signal.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Session interrupted
//	  Legs recorded: 3
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(legs int) {
	sep := warnColor(rule)
	write(
		sep,
		warnColor("  ⚠ Session interrupted"),
		fmt.Sprintf("  Legs recorded: %d", legs),
		sep,
	)
}

// PrintStatusBanner displays a session snapshot.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  Session:  6f1c0e9a-...
//	  State:    neutral_pending
//	  Target:   R2 (3/6)
//	  Legs:     5
//	  Updated:  2026-05-01T09:00:03Z
//	──────────────────────────────────────────────────
func PrintStatusBanner(snap session.Snapshot) {
	sep := strings.Repeat("─", 50)
	lines := []string{
		sep,
		fmt.Sprintf("  Session:  %s", snap.SessionID),
		fmt.Sprintf("  State:    %s", snap.State),
	}
	if snap.Current != target.None {
		lines = append(lines, fmt.Sprintf("  Target:   %s (%d/%d)", snap.Current, snap.Index+1, snap.Total))
	}
	lines = append(lines, fmt.Sprintf("  Legs:     %d", snap.Legs))
	if snap.SensorError != "" {
		lines = append(lines, fmt.Sprintf("  Sensor:   %s", errorColor(snap.SensorError)))
	}
	lines = append(lines,
		fmt.Sprintf("  Updated:  %s", snap.UpdatedAt.Format(time.RFC3339)),
		sep,
	)
	write(lines...)
}
