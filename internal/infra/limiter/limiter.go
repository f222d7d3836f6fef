package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter struct {
	semaphore   chan struct{}
	rateLimiter *rate.Limiter
}

// New gates callers by both a token bucket and a concurrency cap. A
// non-positive ratePerSecond disables the rate limit.
func New(maxConcurrent int, ratePerSecond float64) *Limiter {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &Limiter{
		semaphore:   make(chan struct{}, max(1, maxConcurrent)),
		rateLimiter: rate.NewLimiter(limit, max(1, int(ratePerSecond))),
	}
}

func (l *Limiter) Acquire(ctx context.Context) (release func(), err error) {
	if err := l.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	select {
	case l.semaphore <- struct{}{}:
		return func() { <-l.semaphore }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Limiter) TryAcquire() (release func(), ok bool) {
	if !l.rateLimiter.Allow() {
		return nil, false
	}

	select {
	case l.semaphore <- struct{}{}:
		return func() { <-l.semaphore }, true
	default:
		return nil, false
	}
}
