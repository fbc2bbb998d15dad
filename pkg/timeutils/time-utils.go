package timeutils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrAllAttemptsFailed = errors.New("all attempts failed")

// Retry calls function once per entry of attemptDelays, waiting that entry's
// delay before the attempt. onFinished decides whether another attempt is
// needed. When every attempt asks for a retry the last error is returned
// joined with ErrAllAttemptsFailed.
func Retry[T any](
	ctx context.Context,
	attemptDelays []time.Duration,
	function func(context.Context) (T, error),
	onFinished func(T, error) (needRetry bool),
) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for _, delay := range attemptDelays {
		if err := SleepCtx(ctx, delay); err != nil {
			return zero, fmt.Errorf("retry canceled: %w", err)
		}
		res, err := function(ctx)
		if !onFinished(res, err) {
			return res, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return zero, fmt.Errorf("%w: %w", ErrAllAttemptsFailed, lastErr)
	}
	return zero, ErrAllAttemptsFailed
}

// SleepCtx waits for d or until ctx is done. A non-positive d only checks ctx.
func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sleep canceled: %w", err)
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
