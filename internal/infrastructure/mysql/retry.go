package mysql

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms).
var retryBackoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// WithDeadlockRetry runs fn up to maxAttempts times while it fails with a
// deadlock or lock wait timeout. Other errors are returned immediately.
func WithDeadlockRetry(ctx context.Context, maxAttempts int, logger *zap.Logger, op string, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsDeadlock(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		base := retryBackoffs[min(attempt, len(retryBackoffs)-1)]
		// ±20% jitter
		wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
		logger.Warn("deadlock detected, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Duration("backoff", wait),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("%s: max retries exceeded: %w", op, err)
}
