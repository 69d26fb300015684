package fs

import (
	"context"
	"fmt"
	"time"
)

// Copying a live input directory can race with whatever writes into it, so
// copy and rename calls go through a short bounded retry. Only transient
// errors (EAGAIN, EBUSY, timeouts) are retried; anything else fails on first
// sight.

const (
	retryAttempts  = 4
	retryBaseDelay = 50 * time.Millisecond
)

func retry(ctx context.Context, opName string, fn func() error) error {
	var lastErr error
	delay := retryBaseDelay

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return fmt.Errorf("%s: %w", opName, lastErr)
		}

		if attempt < retryAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", opName, retryAttempts, lastErr)
}
