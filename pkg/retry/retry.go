package retry

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultAttempts = 4
	DefaultInterval = 2 * time.Second
)

// Policy is a bounded fixed-interval retry wrapper for exchange calls.
// Retryable decides which errors are worth another attempt; anything else
// propagates immediately. A nil Retryable retries everything.
type Policy struct {
	Attempts  int
	Interval  time.Duration
	Retryable func(error) bool
}

func Default(retryable func(error) bool) Policy {
	return Policy{
		Attempts:  DefaultAttempts,
		Interval:  DefaultInterval,
		Retryable: retryable,
	}
}

// Do runs fn up to p.Attempts times, sleeping p.Interval between attempts.
// op names the wrapped call for the exhaustion log line.
func (p Policy) Do(ctx context.Context, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Interval):
		}
	}
	log.WithFields(log.Fields{"op": op, "attempts": attempts}).Errorf("retry budget exhausted: %v", lastErr)
	return fmt.Errorf("%s: retry budget exhausted after %d attempts: %w", op, attempts, lastErr)
}
