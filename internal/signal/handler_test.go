package signal

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sigRecorder struct {
	mu   sync.Mutex
	sigs []os.Signal
}

func (r *sigRecorder) record(sig os.Signal) {
	r.mu.Lock()
	r.sigs = append(r.sigs, sig)
	r.mu.Unlock()
}

func (r *sigRecorder) got() []os.Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]os.Signal(nil), r.sigs...)
}

func TestSetupSignalHandler_SignalsCallCallbackAndCancel(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGTERM} {
		t.Run(sig.String(), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			rec := &sigRecorder{}
			stop := SetupSignalHandler(ctx, cancel, rec.record)
			defer stop()

			require.NoError(t, syscall.Kill(os.Getpid(), sig))

			require.Eventually(t, func() bool { return len(rec.got()) == 1 }, time.Second, 10*time.Millisecond)
			assert.Equal(t, sig, rec.got()[0])

			select {
			case <-ctx.Done():
				assert.ErrorIs(t, ctx.Err(), context.Canceled)
			case <-time.After(time.Second):
				t.Fatal("context was not cancelled")
			}
		})
	}
}

func TestSetupSignalHandler_ContextCancellationSkipsCallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	rec := &sigRecorder{}
	stop := SetupSignalHandler(ctx, cancel, rec.record)
	defer stop()

	cancel()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, rec.got(), "onInterrupt should not be called for context cancellation")
}

func TestSetupSignalHandler_NilCallback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stop := SetupSignalHandler(ctx, cancel, nil)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}
}

func TestSetupSignalHandler_StopIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := SetupSignalHandler(ctx, cancel, nil)
	stop()
	stop()

	assert.NoError(t, ctx.Err(), "stopping the handler must not cancel the context")
}
