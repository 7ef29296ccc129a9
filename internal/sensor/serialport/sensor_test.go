package serialport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/CodexForgeBR/target-drill/internal/target"
)

func init() {
	color.NoColor = true
}

// fakePort answers each written command from a reply table. A reply of ""
// simulates a read timeout.
type fakePort struct {
	mu       sync.Mutex
	replies  map[string][]string
	written  []string
	readBuf  bytes.Buffer
	timeout  time.Duration
	closed   bool
	resets   int
	writeErr error
}

func newFakePort() *fakePort {
	return &fakePort{replies: map[string][]string{}}
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	cmd := strings.TrimSpace(string(b))
	p.written = append(p.written, cmd)
	queue := p.replies[cmd]
	if len(queue) > 0 {
		p.readBuf.WriteString(queue[0])
		p.replies[cmd] = queue[1:]
	}
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readBuf.Len() == 0 {
		return 0, nil
	}
	return p.readBuf.Read(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.timeout = t
	return nil
}

func (p *fakePort) ResetInputBuffer() error {
	p.resets++
	p.readBuf.Reset()
	return nil
}

func TestNeutralStatusParsesFlanks(t *testing.T) {
	port := newFakePort()
	port.replies["N"] = []string{"3,0\n", " 0 , 0 \r\n"}
	s := New(port)

	st, err := s.NeutralStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Left)
	assert.Equal(t, 0, st.Right)

	st, err = s.NeutralStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Clear())
}

func TestTargetStatusUsesModuleIndex(t *testing.T) {
	port := newFakePort()
	port.replies["T2"] = []string{"0\n", "1\n"}
	s := New(port)

	hit, err := s.TargetStatus(context.Background(), target.L2)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = s.TargetStatus(context.Background(), target.L2)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"T2", "T2"}, port.written)
}

func TestTargetStatusRejectsCenter(t *testing.T) {
	s := New(newFakePort())
	_, err := s.TargetStatus(context.Background(), target.Center)
	assert.Error(t, err)
}

func TestRepliesSplitAcrossReads(t *testing.T) {
	port := newFakePort()
	port.replies["T0"] = []string{"1\n0\n"}
	s := New(port)
	s.chunk = make([]byte, 1)

	hit, err := s.TargetStatus(context.Background(), target.L1)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestReadTimeoutResetsInput(t *testing.T) {
	port := newFakePort()
	port.replies["N"] = []string{"1,"}
	s := New(port)

	_, err := s.NeutralStatus(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadTimeout)
	assert.Equal(t, 1, port.resets)
	assert.Empty(t, s.pending)
}

func TestMalformedReplies(t *testing.T) {
	tests := []struct {
		name  string
		cmd   string
		reply string
		call  func(s *Sensor) error
	}{
		{"neutral without comma", "N", "12\n", func(s *Sensor) error {
			_, err := s.NeutralStatus(context.Background())
			return err
		}},
		{"neutral non numeric", "N", "a,0\n", func(s *Sensor) error {
			_, err := s.NeutralStatus(context.Background())
			return err
		}},
		{"target garbage", "T1", "yes\n", func(s *Sensor) error {
			_, err := s.TargetStatus(context.Background(), target.R1)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := newFakePort()
			port.replies[tt.cmd] = []string{tt.reply}
			assert.Error(t, tt.call(New(port)))
		})
	}
}

func TestWriteErrorIsWrapped(t *testing.T) {
	port := newFakePort()
	port.writeErr = errors.New("device unplugged")
	s := New(port)

	_, err := s.TargetStatus(context.Background(), target.R2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")
}

func TestCancelledContextSkipsQuery(t *testing.T) {
	port := newFakePort()
	s := New(port)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.NeutralStatus(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, port.written)
}

func TestOpenRetriesAndSetsTimeout(t *testing.T) {
	port := newFakePort()
	attempts := 0
	orig := openPort
	openPort = func(name string, mode *serial.Mode) (Port, error) {
		attempts++
		assert.Equal(t, "/dev/ttyUSB0", name)
		assert.Equal(t, 9600, mode.BaudRate)
		if attempts < 3 {
			return nil, errors.New("busy")
		}
		return port, nil
	}
	defer func() { openPort = orig }()

	var retries []int
	s, err := Open(context.Background(), Config{
		PortName:    "/dev/ttyUSB0",
		BaudRate:    9600,
		ReadTimeout: 250 * time.Millisecond,
		Retry: RetryConfig{
			MaxRetries: 5,
			BaseDelay:  time.Millisecond,
			OnRetry:    func(attempt int, delay time.Duration, err error) { retries = append(retries, attempt) },
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retries)
	assert.Equal(t, 250*time.Millisecond, port.timeout)

	require.NoError(t, s.Close())
	assert.True(t, port.closed)
}

func TestOpenGivesUp(t *testing.T) {
	orig := openPort
	openPort = func(name string, mode *serial.Mode) (Port, error) {
		return nil, errors.New("no such device")
	}
	defer func() { openPort = orig }()

	_, err := Open(context.Background(), Config{
		PortName: "/dev/ttyACM9",
		Retry:    RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (1) exceeded")
	assert.Contains(t, err.Error(), "no such device")
}

func TestOpenRequiresPortName(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)
}

func TestRetryWithBackoffHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryWithBackoff(ctx, RetryConfig{MaxRetries: 3, BaseDelay: time.Hour}, func() error {
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
