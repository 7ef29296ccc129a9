// Package countdown prints a short countdown before the first target lights.
package countdown

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var goColor = color.New(color.FgGreen, color.Bold).SprintFunc()

// Run counts down from seconds to zero, one line per step, then prints "Go!".
// step is the wall time of one count (normally time.Second). It returns
// immediately when seconds is not positive and ctx.Err() if ctx is done first.
func Run(ctx context.Context, seconds int, step time.Duration, out io.Writer) error {
	if seconds <= 0 {
		return nil
	}
	if step <= 0 {
		step = time.Second
	}

	timer := time.NewTimer(step)
	defer timer.Stop()

	for remaining := seconds; remaining > 0; remaining-- {
		fmt.Fprintf(out, "  %d...\n", remaining)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(step)
		}
	}

	fmt.Fprintln(out, goColor("  Go!"))
	return nil
}
