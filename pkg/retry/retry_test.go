package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	p := Policy{Attempts: 3, Interval: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoRecoversWithinBudget(t *testing.T) {
	p := Policy{Attempts: 3, Interval: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	p := Policy{Attempts: 4, Interval: time.Millisecond}
	base := errors.New("down")
	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		return base
	})
	if calls != 4 {
		t.Fatalf("expected exactly 4 calls, got %d", calls)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestDoNonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("bad request")
	p := Policy{
		Attempts:  5,
		Interval:  time.Millisecond,
		Retryable: func(err error) bool { return !errors.Is(err, fatal) },
	}
	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		return fatal
	})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if !errors.Is(err, fatal) {
		t.Fatalf("expected the original error, got %v", err)
	}
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 10, Interval: time.Hour}
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := p.Do(ctx, "op", func() error {
		calls++
		return errors.New("down")
	})
	if calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDoZeroAttemptsUsesDefault(t *testing.T) {
	p := Policy{Interval: time.Millisecond}
	calls := 0
	_ = p.Do(context.Background(), "op", func() error {
		calls++
		return errors.New("down")
	})
	if calls != DefaultAttempts {
		t.Fatalf("expected %d calls, got %d", DefaultAttempts, calls)
	}
}
