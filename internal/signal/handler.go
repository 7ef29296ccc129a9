// Package signal turns SIGINT and SIGTERM into a session stop for the
// target-drill CLI.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SetupSignalHandler registers SIGINT and SIGTERM handlers. On the first
// signal it calls onInterrupt (if non-nil) with the received signal, then
// cancels the context. The returned function unregisters the handlers; call
// it once the session is over so a later Ctrl-C terminates the process
// normally.
//
// The listening goroutine exits when a signal arrives, when ctx is done, or
// when the returned function is called.
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	stop := signal.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
//	    machine.Stop()
//	})
//	defer stop()
func SetupSignalHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func(os.Signal)) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	quit := make(chan struct{})

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel()
		case <-ctx.Done():
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}
