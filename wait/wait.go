// Package wait provides the condition-polling and retry primitives that
// replace fixed sleeps throughout the suite.
//
// A Condition is checked at a fixed interval until it holds or a wall-clock
// budget elapses; a flaky single-shot operation is re-run up to a bounded
// number of attempts. Every call is self-contained: no shared state, safe
// for concurrent use.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Condition is a predicate over external state, such as the visibility of a
// page element. It must be safe to evaluate repeatedly. Returning a non-nil
// error aborts polling immediately; wrap with Swallowing to opt out.
type Condition func() (bool, error)

// Configuration errors, returned before any polling happens.
var (
	ErrInvalidInterval = errors.New("wait: poll interval must be positive")
	ErrInvalidTimeout  = errors.New("wait: timeout must be non-negative")
	ErrInvalidAttempts = errors.New("wait: max attempts must be at least 1")
)

// TimeoutError is returned by Until and UntilContext when the condition
// never held within the budget.
type TimeoutError struct {
	// Timeout is the configured wall-clock budget.
	Timeout time.Duration
	// Err is the underlying cause when polling was cut short, such as
	// context cancellation. Nil for a plain timeout.
	Err error
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wait: condition not met after %v: %v", e.Timeout, e.Err)
	}
	return fmt.Sprintf("wait: condition not met within %v", e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Until polls cond every interval until it returns true or timeout elapses,
// returning a *TimeoutError in the latter case.
//
// The first check runs immediately, so an already-true condition costs no
// sleep, and a zero timeout means "check exactly once". The deadline is
// enforced after each false check, never before the first one, so the loop
// cannot sleep on an exhausted budget. Errors from cond propagate as-is.
func Until(cond Condition, timeout, interval time.Duration) error {
	return UntilContext(context.Background(), cond, timeout, interval)
}

// UntilContext is Until with external cancellation: when ctx is done the
// poll stops immediately, even mid-sleep, and the returned *TimeoutError
// wraps ctx.Err().
func UntilContext(ctx context.Context, cond Condition, timeout, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	if timeout < 0 {
		return ErrInvalidTimeout
	}

	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return &TimeoutError{Timeout: timeout, Err: err}
		}
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Since(start) >= timeout {
			return &TimeoutError{Timeout: timeout}
		}
		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return &TimeoutError{Timeout: timeout, Err: ctx.Err()}
		}
	}
}

// Swallowing converts errors from cond into false, so polling continues
// through them. Condition errors mask real bugs more often than they signal
// transient state, which is why this is a separate wrapper and not the
// default.
func Swallowing(cond Condition) Condition {
	return func() (bool, error) {
		ok, err := cond()
		if err != nil {
			return false, nil
		}
		return ok, nil
	}
}
