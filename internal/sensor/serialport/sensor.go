// Package serialport talks to the target controller over a serial line.
//
// The controller answers one request per line:
//
//	N\n      -> "<left>,<right>\n"  neutral-zone flank readings
//	T<i>\n   -> "1\n" or "0\n"      contact on target module i (L1=0 R1=1 L2=2 R2=3)
package serialport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/CodexForgeBR/target-drill/internal/logging"
	"github.com/CodexForgeBR/target-drill/internal/sensor"
	"github.com/CodexForgeBR/target-drill/internal/target"
)

// ErrReadTimeout is returned when the controller does not answer in time.
var ErrReadTimeout = errors.New("controller read timed out")

// Port is the subset of serial.Port the sensor needs.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Config describes how to reach the controller.
type Config struct {
	PortName    string
	BaudRate    int           // default 115200
	ReadTimeout time.Duration // default 500ms
	Retry       RetryConfig
}

// openPort is replaced in tests.
var openPort = func(name string, mode *serial.Mode) (Port, error) {
	return serial.Open(name, mode)
}

// ListPorts returns the serial ports present on this machine.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}

// Sensor implements sensor.Sensor over a serial connection. Queries are
// serialized; a poll loop and a late in-flight query never interleave on
// the wire.
type Sensor struct {
	mu      sync.Mutex
	port    Port
	pending []byte
	chunk   []byte
}

var _ sensor.Sensor = (*Sensor)(nil)

// Open connects to the controller, retrying with backoff while the port is
// unavailable.
func Open(ctx context.Context, cfg Config) (*Sensor, error) {
	if cfg.PortName == "" {
		return nil, errors.New("serial port name is required")
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 115200
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 500 * time.Millisecond
	}
	if cfg.Retry.OnRetry == nil {
		cfg.Retry.OnRetry = func(attempt int, delay time.Duration, err error) {
			logging.Warn(fmt.Sprintf("Open %s failed (%v), retry %d in %s", cfg.PortName, err, attempt, delay))
		}
	}

	var port Port
	err := retryWithBackoff(ctx, cfg.Retry, func() error {
		p, err := openPort(cfg.PortName, &serial.Mode{BaudRate: cfg.BaudRate})
		if err != nil {
			return err
		}
		port = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.PortName, err)
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	logging.Debug(fmt.Sprintf("Connected to controller on %s at %d baud", cfg.PortName, cfg.BaudRate))
	return New(port), nil
}

// New wraps an already open port.
func New(port Port) *Sensor {
	return &Sensor{port: port, chunk: make([]byte, 64)}
}

// Close releases the port.
func (s *Sensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}

// NeutralStatus queries both neutral-zone flanks.
func (s *Sensor) NeutralStatus(ctx context.Context) (sensor.NeutralStatus, error) {
	line, err := s.request(ctx, "N")
	if err != nil {
		return sensor.NeutralStatus{}, err
	}
	return parseNeutral(line)
}

// TargetStatus queries the contact sensor of a peripheral target.
func (s *Sensor) TargetStatus(ctx context.Context, id target.ID) (bool, error) {
	idx := id.SensorIndex()
	if idx < 0 {
		return false, fmt.Errorf("target %s has no sensor module", id)
	}
	line, err := s.request(ctx, "T"+strconv.Itoa(idx))
	if err != nil {
		return false, err
	}
	switch line {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected target reply %q", line)
	}
}

func (s *Sensor) request(ctx context.Context, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.port.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("write %s: %w", cmd, err)
	}
	line, err := s.readLine()
	if err != nil {
		// Drop partial data so the next reply starts on a clean line.
		s.pending = s.pending[:0]
		if r, ok := s.port.(interface{ ResetInputBuffer() error }); ok {
			_ = r.ResetInputBuffer()
		}
		return "", fmt.Errorf("read reply to %s: %w", cmd, err)
	}
	return line, nil
}

// readLine returns the next newline-terminated reply. serial ports report a
// read timeout as a zero-length read without error.
func (s *Sensor) readLine() (string, error) {
	for {
		if idx := bytes.IndexByte(s.pending, '\n'); idx >= 0 {
			line := strings.TrimSpace(string(s.pending[:idx]))
			s.pending = append(s.pending[:0], s.pending[idx+1:]...)
			return line, nil
		}
		n, err := s.port.Read(s.chunk)
		if n > 0 {
			s.pending = append(s.pending, s.chunk[:n]...)
		}
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", ErrReadTimeout
		}
	}
}

func parseNeutral(line string) (sensor.NeutralStatus, error) {
	left, right, ok := strings.Cut(line, ",")
	if !ok {
		return sensor.NeutralStatus{}, fmt.Errorf("unexpected neutral reply %q", line)
	}
	l, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return sensor.NeutralStatus{}, fmt.Errorf("parse left flank %q: %w", left, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return sensor.NeutralStatus{}, fmt.Errorf("parse right flank %q: %w", right, err)
	}
	return sensor.NeutralStatus{Left: l, Right: r}, nil
}
