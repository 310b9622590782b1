package storage

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// RetryConfig holds retry configuration for KV requests.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per request.
	MaxAttempts int

	// BackoffBase is the initial backoff duration.
	BackoffBase time.Duration

	// BackoffMultiplier is applied to backoff on each retry.
	BackoffMultiplier float64

	// MaxBackoff caps the maximum backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns retry defaults for KV requests.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       100 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        2 * time.Second,
	}
}

// isTransient reports whether a KV error may succeed on retry.
func isTransient(err error) bool {
	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoResponders) ||
		errors.Is(err, jetstream.ErrNoHeartbeat) ||
		errors.Is(err, context.DeadlineExceeded)
}

// retry runs fn until it succeeds, fails with a non-transient error, or the
// attempts are exhausted.
func (s *Store) retry(ctx context.Context, op string, fn func() error) error {
	attempts := max(s.retryConfig.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) || ctx.Err() != nil {
			return err
		}

		if attempt < attempts {
			backoff := s.calculateBackoff(attempt)
			s.logger.Debug("KV request failed, retrying",
				"op", op,
				"attempt", attempt,
				"max_attempts", attempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

// calculateBackoff computes exponential backoff duration with +/- 25% jitter.
func (s *Store) calculateBackoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= s.retryConfig.BackoffMultiplier
	}

	backoff := time.Duration(float64(s.retryConfig.BackoffBase) * multiplier)
	if s.retryConfig.MaxBackoff > 0 && backoff > s.retryConfig.MaxBackoff {
		backoff = s.retryConfig.MaxBackoff
	}

	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}
