// Package retry holds the poll cadence and the consecutive error budget used
// while waiting on a remote build.
package retry

import (
	"fmt"
	"time"

	ferrors "git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

const (
	DefaultInterval       = 5 * time.Second
	DefaultMaxConsecutive = 3
)

// Policy encapsulates poll settings. It is immutable after construction.
type Policy struct {
	Interval       time.Duration // wait before every poll
	MaxConsecutive int           // consecutive failures that end the loop
}

// DefaultPolicy returns a 5s interval with a budget of 3 consecutive errors.
func DefaultPolicy() Policy {
	return Policy{Interval: DefaultInterval, MaxConsecutive: DefaultMaxConsecutive}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
func NewPolicy(interval time.Duration, maxConsecutive int) Policy {
	p := DefaultPolicy()
	if interval > 0 {
		p.Interval = interval
	}
	if maxConsecutive > 0 {
		p.MaxConsecutive = maxConsecutive
	}
	return p
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Interval <= 0 {
		return fmt.Errorf("interval must be >0")
	}
	if p.MaxConsecutive < 1 {
		return fmt.Errorf("max consecutive errors must be >=1")
	}
	return nil
}

// Retryable reports whether a poll failure may be retried. Authentication
// failures end the loop at once; everything else, per-request timeouts
// included, counts against the budget. Cancellation of the caller's context
// is checked by the caller, not here.
func Retryable(err error) bool {
	return !ferrors.HasCategory(err, ferrors.CategoryAuth)
}
