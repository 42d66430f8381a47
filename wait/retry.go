package wait

import "fmt"

// Retry invokes op until it succeeds, up to maxAttempts total invocations
// (the first call is attempt 1), and returns the first successful result.
//
// There is no delay between attempts. On exhaustion the last attempt's
// error is returned wrapped with the attempt count; errors.Is and errors.As
// still match the underlying error. Errors from earlier attempts are
// discarded. op may have side effects; the caller guarantees re-invocation
// is safe.
func Retry[T any](op func() (T, error), maxAttempts int) (T, error) {
	var zero T
	if maxAttempts < 1 {
		return zero, ErrInvalidAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := op()
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return zero, fmt.Errorf("wait: all %d attempts failed: %w", maxAttempts, lastErr)
}

// Try is Retry for operations with no result.
func Try(op func() error, maxAttempts int) error {
	_, err := Retry(func() (struct{}, error) {
		return struct{}{}, op()
	}, maxAttempts)
	return err
}
