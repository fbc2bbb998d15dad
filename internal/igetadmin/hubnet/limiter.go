package hubnet

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"iget-admin/pkg/timeutils"
)

const defaultRetryAfter = time.Minute

type RateLimiter struct {
	limiter      *rate.Limiter
	blockedUntil time.Time
	mux          *sync.Mutex
}

func NewRateLimiter(limit rate.Limit) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
		mux:     &sync.Mutex{},
	}
}

// Wait holds the caller until any Retry-After block has passed and a token is
// available.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mux.Lock()
		remaining := time.Until(rl.blockedUntil)
		rl.mux.Unlock()
		if remaining <= 0 {
			break
		}
		if err := timeutils.SleepCtx(ctx, remaining); err != nil {
			return fmt.Errorf("rate limit block: %w", err)
		}
	}
	return rl.limiter.Wait(ctx) //nolint:wrapcheck // unnecessary
}

// BlockFor stops handing out tokens until duration has passed. Overlapping
// blocks extend to the latest deadline.
func (rl *RateLimiter) BlockFor(duration time.Duration) {
	rl.mux.Lock()
	defer rl.mux.Unlock()
	if until := time.Now().Add(duration); until.After(rl.blockedUntil) {
		rl.blockedUntil = until
	}
}

func ParseRetryAfter(headers http.Header) time.Duration {
	retryAfter := headers.Get("Retry-After")
	if retryAfter == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
