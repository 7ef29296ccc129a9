// Package session runs one drill: it presents the generated target sequence,
// arbitrates between sensor detections and operator overrides, and times
// every leg.
//
// All state lives in Machine behind a single mutex. Each leg's poll loop
// carries the generation number current when it was started; a detection is
// honored only while that number is still current, and every transition bumps
// it before anything else happens. A stale loop or a late in-flight query can
// therefore never confirm a leg twice.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CodexForgeBR/target-drill/internal/logging"
	"github.com/CodexForgeBR/target-drill/internal/result"
	"github.com/CodexForgeBR/target-drill/internal/sensor"
	"github.com/CodexForgeBR/target-drill/internal/sequence"
	"github.com/CodexForgeBR/target-drill/internal/target"
	"github.com/CodexForgeBR/target-drill/internal/timing"
)

// Config wires a Machine to its collaborators.
type Config struct {
	ID        string          // default: random UUID
	Counts    target.Counts   // copied; later changes have no effect
	Source    sequence.Source // default: time-seeded math/rand
	Clock     timing.Clock    // default: timing.SystemClock
	Poller    *sensor.Poller  // nil disables automatic detection
	Observers []Observer
}

// Machine is the session state machine.
type Machine struct {
	mu        sync.Mutex
	id        string
	counts    target.Counts
	source    sequence.Source
	clock     timing.Clock
	watch     *timing.Stopwatch
	poller    *sensor.Poller
	observers []Observer

	ctx        context.Context
	state      State
	seq        []target.ID
	index      int
	current    target.ID
	legs       []timing.Interaction
	generation uint64
	cancelLeg  context.CancelFunc
	sensorErr  error

	result result.SessionResult
	err    error
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a session in StateAwaitingStart.
func New(cfg Config) *Machine {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Source == nil {
		cfg.Source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Clock == nil {
		cfg.Clock = timing.SystemClock{}
	}
	if cfg.Poller != nil && cfg.Poller.Now == nil {
		// Detection timestamps must come from the same clock as leg marks.
		p := *cfg.Poller
		p.Now = cfg.Clock.Now
		cfg.Poller = &p
	}
	return &Machine{
		id:        cfg.ID,
		counts:    cfg.Counts.Clone(),
		source:    cfg.Source,
		clock:     cfg.Clock,
		watch:     timing.NewStopwatch(cfg.Clock),
		poller:    cfg.Poller,
		observers: cfg.Observers,
		ctx:       context.Background(),
		state:     StateAwaitingStart,
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier.
func (m *Machine) ID() string {
	return m.id
}

// Start generates the sequence and activates its first target. The first
// boundary is marked here; no leg is emitted for it. An empty sequence
// completes the session immediately. ctx bounds every poll loop.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAwaitingStart {
		return ErrAlreadyStarted
	}
	m.ctx = ctx
	m.seq = sequence.Generate(m.counts, m.source)
	logging.Debug(fmt.Sprintf("Session %s sequence: %v", m.id, m.seq))

	if len(m.seq) == 0 {
		m.completeLocked(false)
		return nil
	}

	m.watch.Mark()
	m.activateLocked()
	return nil
}

// ConfirmNeutral is the operator's manual return-to-center override. It is
// honored only while the session awaits a return to neutral and reports
// whether it was.
func (m *Machine) ConfirmNeutral() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateNeutralPending {
		logging.Debug(fmt.Sprintf("Center confirmation ignored in state %s", m.state))
		return false
	}
	m.returnLocked(m.clock.Now())
	return true
}

// Stop ends the session immediately. The leg in progress is dropped rather
// than recorded. It reports false if the session had already completed.
func (m *Machine) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateComplete {
		return false
	}
	m.completeLocked(true)
	return true
}

// RetryPolling restarts detection for the current leg after its poll loop
// ended with a sensor error. It reports whether a new loop was started.
func (m *Machine) RetryPolling() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sensorErr == nil || m.poller == nil {
		return false
	}
	if m.state != StateTargetActive && m.state != StateNeutralPending {
		return false
	}
	logging.Info(fmt.Sprintf("Retrying sensor polling for %s", m.awaitingLocked()))
	m.sensorErr = nil
	m.beginLegLocked()
	m.publishLocked()
	return true
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Sequence returns a copy of the generated sequence, or nil before Start.
func (m *Machine) Sequence() []target.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq == nil {
		return nil
	}
	out := make([]target.ID, len(m.seq))
	copy(out, m.seq)
	return out
}

// Legs returns a copy of the legs recorded so far.
func (m *Machine) Legs() []timing.Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]timing.Interaction, len(m.legs))
	copy(out, m.legs)
	return out
}

// Done is closed once the session reaches StateComplete.
func (m *Machine) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the session completes and every poll loop has exited.
// The error is the InvariantViolation that ended the session, if any.
func (m *Machine) Wait(ctx context.Context) (result.SessionResult, error) {
	select {
	case <-m.done:
	case <-ctx.Done():
		return result.SessionResult{}, ctx.Err()
	}
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.err
}

func (m *Machine) activateLocked() {
	if m.index < 0 || m.index >= len(m.seq) {
		m.failLocked(&InvariantViolation{
			Reason: fmt.Sprintf("sequence index %d out of range [0,%d)", m.index, len(m.seq)),
		})
		return
	}
	m.state = StateTargetActive
	m.current = m.seq[m.index]
	m.sensorErr = nil
	m.beginLegLocked()
	m.publishLocked()
}

// hitLocked handles a strike on the active target confirmed at at.
func (m *Machine) hitLocked(at time.Time) {
	m.endLegLocked()
	if !m.lapLocked(timing.Outbound(m.current), at) {
		return
	}
	m.state = StateNeutralPending
	m.sensorErr = nil
	m.beginLegLocked()
	m.publishLocked()
}

// returnLocked handles a return to neutral confirmed at at.
func (m *Machine) returnLocked(at time.Time) {
	m.endLegLocked()
	if !m.lapLocked(timing.Inbound(m.current), at) {
		return
	}
	m.index++
	if m.index < len(m.seq) {
		m.activateLocked()
		return
	}
	m.completeLocked(false)
}

func (m *Machine) lapLocked(description string, at time.Time) bool {
	leg, emitted, err := m.watch.LapAt(description, at)
	if err != nil {
		m.failLocked(&InvariantViolation{Reason: "leg timing", Err: err})
		return false
	}
	if emitted {
		m.legs = append(m.legs, leg)
		logging.Debug(fmt.Sprintf("%s: %s", leg.Description, logging.FormatSeconds(leg.ElapsedSeconds)))
	}
	return true
}

func (m *Machine) completeLocked(stopped bool) {
	m.endLegLocked()
	m.state = StateComplete
	m.current = target.None
	m.sensorErr = nil

	m.result = result.Finalize(m.legs)
	m.result.SessionID = m.id
	m.result.Stopped = stopped

	m.publishLocked()
	for _, obs := range m.observers {
		obs.OnComplete(m.result)
	}
	close(m.done)
}

func (m *Machine) failLocked(err error) {
	logging.Error(err.Error())
	m.err = err
	m.completeLocked(false)
}

// endLegLocked deactivates the running poll loop, if any.
func (m *Machine) endLegLocked() {
	m.generation++
	if m.cancelLeg != nil {
		m.cancelLeg()
		m.cancelLeg = nil
	}
}

// beginLegLocked replaces any running poll loop with one for the current
// state.
func (m *Machine) beginLegLocked() {
	m.endLegLocked()
	if m.poller == nil {
		return
	}

	token := m.generation
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelLeg = cancel

	awaitNeutral := m.state == StateNeutralPending
	id := m.current
	m.wg.Add(1)
	go m.poll(ctx, token, awaitNeutral, id)
}

func (m *Machine) poll(ctx context.Context, token uint64, awaitNeutral bool, id target.ID) {
	defer m.wg.Done()

	live := func() bool { return m.isLive(token) }

	var (
		ev  sensor.DetectionEvent
		err error
	)
	if awaitNeutral {
		ev, err = m.poller.AwaitNeutral(ctx, live)
	} else {
		ev, err = m.poller.AwaitTarget(ctx, id, live)
	}

	switch {
	case err == nil:
		m.deliver(token, ev)
	case errors.Is(err, sensor.ErrCancelled):
	default:
		m.pollFailed(token, err)
	}
}

func (m *Machine) isLive(token uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return token == m.generation && m.state != StateComplete
}

// deliver applies a detection from the loop identified by token. Detections
// from a loop that is no longer current are discarded. The leg ends at ev.At,
// or now when the event carries no timestamp.
func (m *Machine) deliver(token uint64, ev sensor.DetectionEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != m.generation {
		logging.Debug(fmt.Sprintf("Discarding stale detection for %s", ev.Target))
		return false
	}
	at := ev.At
	if at.IsZero() {
		at = m.clock.Now()
	}
	switch m.state {
	case StateTargetActive:
		m.hitLocked(at)
	case StateNeutralPending:
		m.returnLocked(at)
	default:
		return false
	}
	return true
}

// pollFailed records a sensor error. The leg stays pending until the operator
// retries, overrides or stops.
func (m *Machine) pollFailed(token uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != m.generation {
		return
	}
	m.endLegLocked()
	m.sensorErr = err
	logging.Error(fmt.Sprintf("Sensor polling stopped while awaiting %s: %v", m.awaitingLocked(), err))
	m.publishLocked()
}

func (m *Machine) awaitingLocked() string {
	if m.state == StateNeutralPending {
		return "return to " + string(target.Center)
	}
	return "hit on " + m.current.String()
}

func (m *Machine) publishLocked() {
	if len(m.observers) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for _, obs := range m.observers {
		obs.OnSnapshot(snap)
	}
}

func (m *Machine) snapshotLocked() Snapshot {
	lights := make(map[target.ID]Light, len(target.Peripheral)+1)
	for _, id := range target.Peripheral {
		lights[id] = LightRed
	}
	lights[target.Center] = LightBlue

	switch m.state {
	case StateTargetActive:
		lights[m.current] = LightGreen
	case StateNeutralPending:
		lights[target.Center] = LightYellow
	}

	snap := Snapshot{
		SessionID: m.id,
		State:     m.state,
		Index:     m.index,
		Total:     len(m.seq),
		Current:   m.current,
		Lights:    lights,
		Legs:      len(m.legs),
		UpdatedAt: m.clock.Now(),
	}
	if m.sensorErr != nil {
		snap.SensorError = m.sensorErr.Error()
	}
	return snap
}
