// Package report renders a finished session for machines: JSON or YAML on
// stdout, suitable for piping into other tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/target-drill/internal/result"
	"github.com/CodexForgeBR/target-drill/internal/target"
	"github.com/CodexForgeBR/target-drill/internal/timing"
)

// Report is the serialized session outcome with derived statistics.
type Report struct {
	SessionID      string               `json:"session_id" yaml:"session_id"`
	Seed           int64                `json:"seed" yaml:"seed"`
	Counts         map[string]int       `json:"counts" yaml:"counts"`
	Stopped        bool                 `json:"stopped" yaml:"stopped"`
	Error          string               `json:"error,omitempty" yaml:"error,omitempty"`
	Legs           []timing.Interaction `json:"legs" yaml:"legs"`
	TotalSeconds   float64              `json:"total_seconds" yaml:"total_seconds"`
	AverageSeconds float64              `json:"average_seconds" yaml:"average_seconds"`
	Fastest        *timing.Interaction  `json:"fastest,omitempty" yaml:"fastest,omitempty"`
	Slowest        *timing.Interaction  `json:"slowest,omitempty" yaml:"slowest,omitempty"`
}

// New builds a Report. defect is the error that ended the session, if any.
func New(res result.SessionResult, counts target.Counts, seed int64, defect error) Report {
	r := Report{
		SessionID:      res.SessionID,
		Seed:           seed,
		Counts:         make(map[string]int, len(target.Peripheral)),
		Stopped:        res.Stopped,
		Legs:           res.Legs,
		TotalSeconds:   res.TotalSeconds,
		AverageSeconds: res.Average(),
	}
	if r.Legs == nil {
		r.Legs = []timing.Interaction{}
	}
	for _, id := range target.Peripheral {
		r.Counts[string(id)] = counts.Of(id)
	}
	if defect != nil {
		r.Error = defect.Error()
	}
	if leg, ok := res.Fastest(); ok {
		r.Fastest = &leg
	}
	if leg, ok := res.Slowest(); ok {
		r.Slowest = &leg
	}
	return r
}

// Write encodes r to w in the given format ("json" or "yaml").
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
	return nil
}
