package marketdata

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// retryPolicy controls backoff for transient kline fetch failures.
type retryPolicy struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	factor       float64
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts:  3,
		initialDelay: time.Second,
		maxDelay:     15 * time.Second,
		factor:       2.0,
	}
}

// withRetry runs fn until it succeeds, attempts run out, or ctx ends. Delays
// back off exponentially with jitter so concurrent fetchers do not retry in
// lockstep.
func withRetry(ctx context.Context, policy retryPolicy, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < policy.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == policy.maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(policy.delay(attempt)):
		}
	}
	return lastErr
}

func (p retryPolicy) delay(attempt int) time.Duration {
	d := time.Duration(float64(p.initialDelay) * math.Pow(p.factor, float64(attempt)))
	if d > p.maxDelay {
		d = p.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(d)/5 + 1))
	return d + jitter
}
