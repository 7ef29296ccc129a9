package sensor

import (
	"context"
	"time"

	"github.com/CodexForgeBR/target-drill/internal/target"
)

// DefaultMinInterval is the pause inserted between consecutive queries.
const DefaultMinInterval = 20 * time.Millisecond

// Probe runs one status query and reports whether it counts as a hit.
type Probe func(ctx context.Context) (bool, error)

// Poller repeatedly queries a Sensor until a predicate holds, the loop is
// deactivated, or a query fails.
type Poller struct {
	Sensor      Sensor
	MinInterval time.Duration    // pause between queries (default 20ms)
	Now         func() time.Time // detection timestamp source (default time.Now)
}

// AwaitTarget polls until the sensor for id reports contact.
func (p *Poller) AwaitTarget(ctx context.Context, id target.ID, live func() bool) (DetectionEvent, error) {
	return p.Await(ctx, id, live, func(ctx context.Context) (bool, error) {
		return p.Sensor.TargetStatus(ctx, id)
	})
}

// AwaitNeutral polls until both neutral-zone flanks read zero.
func (p *Poller) AwaitNeutral(ctx context.Context, live func() bool) (DetectionEvent, error) {
	return p.Await(ctx, target.Center, live, func(ctx context.Context) (bool, error) {
		status, err := p.Sensor.NeutralStatus(ctx)
		if err != nil {
			return false, err
		}
		return status.Clear(), nil
	})
}

// Await runs probe until it reports a hit. live is consulted before every
// query and once more before a detection is emitted; when it reports false,
// or ctx is done, Await returns ErrCancelled. A failed query ends the loop
// with a *SensorReadError and no detection. Await never retries a failed
// query.
func (p *Poller) Await(ctx context.Context, id target.ID, live func() bool, probe Probe) (DetectionEvent, error) {
	interval := p.MinInterval
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	polls := 0
	for {
		if ctx.Err() != nil || !live() {
			return DetectionEvent{}, ErrCancelled
		}

		hit, err := probe(ctx)
		polls++
		if err != nil {
			if ctx.Err() != nil || !live() {
				return DetectionEvent{}, ErrCancelled
			}
			return DetectionEvent{}, &SensorReadError{Target: id, Err: err}
		}
		if hit {
			if !live() {
				return DetectionEvent{}, ErrCancelled
			}
			return DetectionEvent{Target: id, At: now(), Polls: polls}, nil
		}

		select {
		case <-ctx.Done():
			return DetectionEvent{}, ErrCancelled
		case <-time.After(interval):
		}
	}
}
