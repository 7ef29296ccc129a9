// Package target defines the fixed set of drill positions and the per-target
// repeat counts a session is built from.
package target

import (
	"fmt"
	"strings"
)

// ID identifies a peripheral target or the neutral zone.
type ID string

const (
	L1     ID = "L1"
	R1     ID = "R1"
	L2     ID = "L2"
	R2     ID = "R2"
	Center ID = "Center"

	// None marks the absence of an active target.
	None ID = ""
)

// Peripheral lists the non-neutral targets in board order.
var Peripheral = []ID{L1, R1, L2, R2}

// BuildOrder is the order in which repeats are laid out before shuffling.
var BuildOrder = []ID{L1, L2, R1, R2}

// SensorIndex returns the controller module index for the target, or -1 for
// the neutral zone and unknown ids.
func (id ID) SensorIndex() int {
	switch id {
	case L1:
		return 0
	case R1:
		return 1
	case L2:
		return 2
	case R2:
		return 3
	default:
		return -1
	}
}

// IsPeripheral reports whether id is one of the four targets.
func (id ID) IsPeripheral() bool {
	return id.SensorIndex() >= 0
}

func (id ID) String() string {
	if id == None {
		return "none"
	}
	return string(id)
}

// Parse resolves a case-insensitive target name.
func Parse(s string) (ID, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L1":
		return L1, nil
	case "R1":
		return R1, nil
	case "L2":
		return L2, nil
	case "R2":
		return R2, nil
	case "CENTER", "CENTRE":
		return Center, nil
	}
	return None, fmt.Errorf("unknown target %q", s)
}

// Counts maps each peripheral target to how many times it appears in a
// session. Missing entries count as zero.
type Counts map[ID]int

// Of returns the repeat count for id, clamping negatives to zero.
func (c Counts) Of(id ID) int {
	n := c[id]
	if n < 0 {
		return 0
	}
	return n
}

// Total returns the number of targets a session built from c will present.
func (c Counts) Total() int {
	total := 0
	for _, id := range Peripheral {
		total += c.Of(id)
	}
	return total
}

// Clone returns an independent copy limited to peripheral targets.
func (c Counts) Clone() Counts {
	out := make(Counts, len(Peripheral))
	for _, id := range Peripheral {
		out[id] = c.Of(id)
	}
	return out
}

// String renders the counts as "L1=2 R1=1 L2=0 R2=3".
func (c Counts) String() string {
	parts := make([]string, 0, len(Peripheral))
	for _, id := range Peripheral {
		parts = append(parts, fmt.Sprintf("%s=%d", id, c.Of(id)))
	}
	return strings.Join(parts, " ")
}
