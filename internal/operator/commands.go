// Package operator reads lifecycle commands typed by the person running the
// drill and forwards them to the session.
package operator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/CodexForgeBR/target-drill/internal/logging"
	"github.com/CodexForgeBR/target-drill/internal/session"
)

// Controls is the part of session.Machine the operator drives.
type Controls interface {
	ConfirmNeutral() bool
	Stop() bool
	RetryPolling() bool
	Snapshot() session.Snapshot
}

// Command is a parsed operator input line.
type Command int

const (
	Unknown Command = iota
	Confirm
	Stop
	Retry
	Status
)

// Parse maps an input line to a Command. An empty line confirms the return
// to center so the operator can just press Enter.
func Parse(line string) Command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "c", "center", "centre":
		return Confirm
	case "s", "stop", "q", "quit":
		return Stop
	case "r", "retry":
		return Retry
	case "?", "status":
		return Status
	default:
		return Unknown
	}
}

// Loop applies commands read from in until the session is done, in reaches
// EOF, or ctx is cancelled. Status output goes to out.
//
// Reading blocks on in, so a Loop reading os.Stdin may outlive the session;
// the reader goroutine exits with the process.
func Loop(ctx context.Context, in io.Reader, out io.Writer, ctl Controls, done <-chan struct{}) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			Apply(Parse(line), line, out, ctl)
		}
	}
}

// Apply executes one command against the session.
func Apply(cmd Command, raw string, out io.Writer, ctl Controls) {
	switch cmd {
	case Confirm:
		if !ctl.ConfirmNeutral() {
			logging.Warn("Nothing to confirm: the active target must be struck first")
		}
	case Stop:
		if ctl.Stop() {
			logging.Info("Session stopped by operator")
		}
	case Retry:
		if !ctl.RetryPolling() {
			logging.Warn("Nothing to retry: no sensor error is pending for the current leg")
		}
	case Status:
		snap := ctl.Snapshot()
		fmt.Fprintf(out, "  state=%s target=%s progress=%d/%d legs=%d\n",
			snap.State, snap.Current, snap.Index, snap.Total, snap.Legs)
	default:
		logging.Warn(fmt.Sprintf("Unknown command %q (c=center, r=retry, ?=status, s=stop)", strings.TrimSpace(raw)))
	}
}
