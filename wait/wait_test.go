package wait

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUntilImmediateSuccess(t *testing.T) {
	calls := 0
	cond := func() (bool, error) {
		calls++
		return true, nil
	}

	start := time.Now()
	if err := Until(cond, 5*time.Second, 100*time.Millisecond); err != nil {
		t.Fatalf("Until returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("condition evaluated %d times, want 1", calls)
	}
	// A true first check must not pay the poll interval.
	if elapsed := time.Since(start); elapsed >= 100*time.Millisecond {
		t.Errorf("Until took %v, want well under one interval", elapsed)
	}
}

func TestUntilTimeout(t *testing.T) {
	const (
		timeout  = 500 * time.Millisecond
		interval = 100 * time.Millisecond
	)
	cond := func() (bool, error) { return false, nil }

	start := time.Now()
	err := Until(cond, timeout, interval)
	elapsed := time.Since(start)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Until returned %v, want *TimeoutError", err)
	}
	if te.Timeout != timeout {
		t.Errorf("TimeoutError.Timeout = %v, want %v", te.Timeout, timeout)
	}
	if elapsed < timeout {
		t.Errorf("Until gave up after %v, before the %v budget", elapsed, timeout)
	}
	if elapsed > timeout+2*interval {
		t.Errorf("Until overshot: took %v for a %v budget", elapsed, timeout)
	}
}

func TestUntilEventualSuccess(t *testing.T) {
	const k = 3
	calls := 0
	cond := func() (bool, error) {
		calls++
		return calls > k, nil
	}

	if err := Until(cond, time.Second, 50*time.Millisecond); err != nil {
		t.Fatalf("Until returned error: %v", err)
	}
	if calls != k+1 {
		t.Errorf("condition evaluated %d times, want %d", calls, k+1)
	}
}

func TestUntilZeroTimeout(t *testing.T) {
	calls := 0
	cond := func() (bool, error) {
		calls++
		return false, nil
	}

	start := time.Now()
	err := Until(cond, 0, 100*time.Millisecond)
	elapsed := time.Since(start)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Until returned %v, want *TimeoutError", err)
	}
	if calls != 1 {
		t.Errorf("condition evaluated %d times, want exactly 1", calls)
	}
	if elapsed >= 100*time.Millisecond {
		t.Errorf("zero-timeout poll slept: took %v", elapsed)
	}
}

func TestUntilZeroTimeoutTrueCondition(t *testing.T) {
	cond := func() (bool, error) { return true, nil }
	if err := Until(cond, 0, 100*time.Millisecond); err != nil {
		t.Fatalf("Until returned error for already-true condition: %v", err)
	}
}

func TestUntilConditionError(t *testing.T) {
	boom := errors.New("stale element")
	calls := 0
	cond := func() (bool, error) {
		calls++
		return false, boom
	}

	err := Until(cond, time.Second, 10*time.Millisecond)
	if !errors.Is(err, boom) {
		t.Fatalf("Until returned %v, want the condition's own error", err)
	}
	if calls != 1 {
		t.Errorf("condition evaluated %d times after erroring, want 1", calls)
	}
}

func TestSwallowing(t *testing.T) {
	calls := 0
	cond := Swallowing(func() (bool, error) {
		calls++
		if calls < 3 {
			return false, errors.New("not ready")
		}
		return true, nil
	})

	if err := Until(cond, time.Second, 10*time.Millisecond); err != nil {
		t.Fatalf("Until returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("condition evaluated %d times, want 3", calls)
	}
}

func TestUntilInvalidConfig(t *testing.T) {
	cond := func() (bool, error) { return true, nil }

	if err := Until(cond, time.Second, 0); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("zero interval: got %v, want ErrInvalidInterval", err)
	}
	if err := Until(cond, time.Second, -time.Millisecond); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("negative interval: got %v, want ErrInvalidInterval", err)
	}
	if err := Until(cond, -time.Second, time.Millisecond); !errors.Is(err, ErrInvalidTimeout) {
		t.Errorf("negative timeout: got %v, want ErrInvalidTimeout", err)
	}
}

func TestUntilContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cond := func() (bool, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return false, nil
	}

	start := time.Now()
	err := UntilContext(ctx, cond, 10*time.Second, 20*time.Millisecond)
	elapsed := time.Since(start)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("UntilContext returned %v, want *TimeoutError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("TimeoutError does not wrap context.Canceled: %v", err)
	}
	if calls != 2 {
		t.Errorf("condition evaluated %d times after cancellation, want 2", calls)
	}
	// Cancellation must interrupt the sleep, not wait out the budget.
	if elapsed > time.Second {
		t.Errorf("UntilContext kept polling for %v after cancellation", elapsed)
	}
}

func TestUntilContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	cond := func() (bool, error) {
		calls++
		return true, nil
	}
	err := UntilContext(ctx, cond, time.Second, 10*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("UntilContext returned %v, want wrapped context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("condition evaluated %d times under a dead context, want 0", calls)
	}
}

// The counter scenario: false for counter values 0,1,2, true at 3.
func TestUntilCounterScenario(t *testing.T) {
	counter := 0
	cond := func() (bool, error) {
		c := counter
		counter++
		return c >= 3, nil
	}

	start := time.Now()
	if err := Until(cond, time.Second, 50*time.Millisecond); err != nil {
		t.Fatalf("Until returned error: %v", err)
	}
	elapsed := time.Since(start)

	if counter != 4 {
		t.Errorf("condition evaluated %d times, want 4", counter)
	}
	if elapsed < 150*time.Millisecond || elapsed > 500*time.Millisecond {
		t.Errorf("elapsed %v, want about 3 intervals (150ms)", elapsed)
	}
}

func TestProfileUntil(t *testing.T) {
	p := Profile{Timeout: 0, Interval: 10 * time.Millisecond}
	calls := 0
	err := p.Until(func() (bool, error) {
		calls++
		return false, nil
	})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Profile.Until returned %v, want *TimeoutError", err)
	}
	if calls != 1 {
		t.Errorf("condition evaluated %d times, want 1", calls)
	}
}
