// Package display renders session snapshots as a one-line terminal board.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/target-drill/internal/result"
	"github.com/CodexForgeBR/target-drill/internal/session"
	"github.com/CodexForgeBR/target-drill/internal/target"
)

var lightColors = map[session.Light]*color.Color{
	session.LightRed:    color.New(color.FgRed),
	session.LightGreen:  color.New(color.FgGreen, color.Bold),
	session.LightYellow: color.New(color.FgYellow, color.Bold),
	session.LightBlue:   color.New(color.FgBlue),
}

// boardOrder is the physical left-to-right layout: outer left, inner left,
// center, inner right, outer right.
var boardOrder = []target.ID{target.L2, target.L1, target.Center, target.R1, target.R2}

// Board is a session.Observer that prints one line per transition.
type Board struct {
	Out io.Writer
}

// NewBoard returns a Board writing to out.
func NewBoard(out io.Writer) *Board {
	return &Board{Out: out}
}

// OnSnapshot implements session.Observer.
func (b *Board) OnSnapshot(s session.Snapshot) {
	if s.State == session.StateComplete {
		return
	}
	fmt.Fprintln(b.Out, Render(s))
}

// OnComplete implements session.Observer. The result itself is printed by
// the caller once the session has returned.
func (b *Board) OnComplete(result.SessionResult) {}

// Render formats a snapshot as a row of lights followed by a status message.
//
//	[L2] [L1] (C) [R1] [R2]  2/6 strike R1
func Render(s session.Snapshot) string {
	cells := make([]string, 0, len(boardOrder))
	for _, id := range boardOrder {
		cell := "[" + string(id) + "]"
		if id == target.Center {
			cell = "(C)"
		}
		if c, ok := lightColors[s.Lights[id]]; ok {
			cell = c.Sprint(cell)
		}
		cells = append(cells, cell)
	}

	return strings.Join(cells, " ") + "  " + status(s)
}

func status(s session.Snapshot) string {
	var msg string
	switch s.State {
	case session.StateAwaitingStart:
		msg = "waiting to start"
	case session.StateTargetActive:
		msg = fmt.Sprintf("%d/%d strike %s", s.Index+1, s.Total, s.Current)
	case session.StateNeutralPending:
		msg = fmt.Sprintf("%d/%d return to center (c to confirm)", s.Index+1, s.Total)
	case session.StateComplete:
		msg = "complete"
	default:
		msg = string(s.State)
	}
	if s.SensorError != "" {
		msg += "  " + color.RedString("sensor error: %s (r to retry)", s.SensorError)
	}
	return msg
}
