package wait

import (
	"context"
	"time"
)

// Profile is a named timeout/interval pair. Call sites pick a profile
// instead of scattering raw durations.
type Profile struct {
	Timeout  time.Duration
	Interval time.Duration
}

// The profiles used across the suite. Override per environment via the
// config package rather than redefining durations at call sites.
var (
	// Default covers ordinary UI settling: element visibility, navigation.
	Default = Profile{Timeout: 10 * time.Second, Interval: 100 * time.Millisecond}
	// Short is for states expected to flip almost immediately, such as a
	// toast notification being dismissed.
	Short = Profile{Timeout: 2 * time.Second, Interval: 50 * time.Millisecond}
	// Long covers whole-page work: checkout submission, script injection.
	Long = Profile{Timeout: 30 * time.Second, Interval: 250 * time.Millisecond}
	// SlowPoll checks rarely-changing state without hammering the driver.
	SlowPoll = Profile{Timeout: 60 * time.Second, Interval: time.Second}
)

// Until polls cond with the profile's budget.
func (p Profile) Until(cond Condition) error {
	return Until(cond, p.Timeout, p.Interval)
}

// UntilContext polls cond with the profile's budget and external
// cancellation.
func (p Profile) UntilContext(ctx context.Context, cond Condition) error {
	return UntilContext(ctx, cond, p.Timeout, p.Interval)
}
