// Package simulated provides a sensor that needs no hardware. Each target
// reports contact a random reaction time after it is first queried, and the
// neutral zone clears a random time after its first query.
package simulated

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/CodexForgeBR/target-drill/internal/sensor"
	"github.com/CodexForgeBR/target-drill/internal/target"
)

// Config bounds the simulated reaction times.
type Config struct {
	MinReaction time.Duration // default 300ms
	MaxReaction time.Duration // default 900ms
	Now         func() time.Time
}

// Sensor is a deterministic (for a given seed) stand-in for the controller.
type Sensor struct {
	mu  sync.Mutex
	rng *rand.Rand
	cfg Config

	armed   target.ID
	dueAt   time.Time
	queries int
}

var _ sensor.Sensor = (*Sensor)(nil)

// New returns a simulated sensor drawing reaction times from rng.
func New(rng *rand.Rand, cfg Config) *Sensor {
	if cfg.MinReaction <= 0 {
		cfg.MinReaction = 300 * time.Millisecond
	}
	if cfg.MaxReaction < cfg.MinReaction {
		cfg.MaxReaction = cfg.MinReaction + 600*time.Millisecond
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Sensor{rng: rng, cfg: cfg}
}

// TargetStatus reports contact once the reaction time drawn for id elapsed.
func (s *Sensor) TargetStatus(ctx context.Context, id target.ID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.reached(id), nil
}

// NeutralStatus reports both flanks clear once the return time elapsed.
func (s *Sensor) NeutralStatus(ctx context.Context) (sensor.NeutralStatus, error) {
	if err := ctx.Err(); err != nil {
		return sensor.NeutralStatus{}, err
	}
	if s.reached(target.Center) {
		return sensor.NeutralStatus{}, nil
	}
	return sensor.NeutralStatus{Left: 1, Right: 1}, nil
}

// Queries returns how many status queries were answered.
func (s *Sensor) Queries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

func (s *Sensor) reached(id target.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	now := s.cfg.Now()
	if s.armed != id {
		s.armed = id
		s.dueAt = now.Add(s.reactionLocked())
	}
	if now.Before(s.dueAt) {
		return false
	}
	s.armed = target.None
	return true
}

func (s *Sensor) reactionLocked() time.Duration {
	span := int64(s.cfg.MaxReaction - s.cfg.MinReaction)
	if span <= 0 {
		return s.cfg.MinReaction
	}
	return s.cfg.MinReaction + time.Duration(s.rng.Int63n(span+1))
}
