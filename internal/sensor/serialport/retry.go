package serialport

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig configures exponential backoff when opening the port.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration // default 500ms
	OnRetry    func(attempt int, delay time.Duration, err error)
}

// retryWithBackoff retries fn with delays BaseDelay, BaseDelay*2,
// BaseDelay*4, ... until it succeeds, MaxRetries is exhausted or ctx ends.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}

	delay := cfg.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if attempt >= cfg.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, delay, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
