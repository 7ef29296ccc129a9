// Package logging provides colored, leveled log output for the target-drill CLI.
//
// All output functions write a prefixed, color-coded line. Debug output is
// suppressed unless verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	verbose bool
	stdout  io.Writer = os.Stdout
	stderr  io.Writer = os.Stderr
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	phasePrefix   = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgMagenta).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// SetOutput redirects log lines. Error lines go to errOut, everything else to
// out. Passing nil restores the process streams.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

// Info prints an informational message in blue.
func Info(msg string) {
	emit(false, infoPrefix("[INFO]")+" "+msg)
}

// Success prints a success message in green.
func Success(msg string) {
	emit(false, successPrefix("[SUCCESS]")+" "+msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	emit(false, warnPrefix("[WARN]")+" "+msg)
}

// Error prints an error message to stderr in red.
func Error(msg string) {
	emit(true, errorPrefix("[ERROR]")+" "+msg)
}

// Phase prints a phase header in cyan, surrounded by separator lines.
func Phase(msg string) {
	sep := phasePrefix("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	emit(false, sep+"\n"+phasePrefix("[PHASE]")+" "+msg+"\n"+sep)
}

// Debug prints a debug message, only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	emit(false, debugPrefix("[DEBUG]")+" "+msg)
}

func emit(toErr bool, line string) {
	mu.Lock()
	defer mu.Unlock()
	w := stdout
	if toErr {
		w = stderr
	}
	fmt.Fprintln(w, line)
}

// FormatSeconds renders a leg or session time with millisecond precision.
//
// Examples:
//
//	FormatSeconds(0)       => "0.000s"
//	FormatSeconds(0.4567)  => "0.457s"
//	FormatSeconds(75.25)   => "1m 15.250s"
//	FormatSeconds(3725.5)  => "1h 2m 5.500s"
func FormatSeconds(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.3fs", seconds)
	}
	whole := int(seconds)
	frac := seconds - float64(whole)
	h := whole / 3600
	m := (whole % 3600) / 60
	s := float64(whole%60) + frac
	if h == 0 {
		return fmt.Sprintf("%dm %.3fs", m, s)
	}
	return fmt.Sprintf("%dh %dm %.3fs", h, m, s)
}
