package services

import (
	"context"
	"time"
)

// simulateCall models the asynchronous operation boundary: every mutating
// directory/inventory call suspends for the configured latency before
// touching state, the way a real network client would. Cancelling the
// context aborts the wait.
func simulateCall(ctx context.Context, latency time.Duration) error {
	if latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
