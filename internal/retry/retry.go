package retry

import (
	"context"
	"errors"
	"time"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func(ctx context.Context) error

// Retryable reports whether a failed attempt may be repeated.
type Retryable func(err error) bool

// Policy bounds the number of attempts and the backoff between them.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

const DefaultMaxRetries = 3

// DefaultPolicy is used when callers have no configured policy.
var DefaultPolicy = Policy{MaxRetries: DefaultMaxRetries, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}

// permanent marks an error that must not be retried regardless of the Retryable func.
type permanent struct{ err error }

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// Permanent wraps err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// Always treats every error as retryable.
func Always(error) bool { return true }

// Do executes op, retrying up to policy.MaxRetries times while retryable(err) holds.
// The delay doubles after each attempt starting from BaseDelay and is capped at MaxDelay.
// Context cancellation stops the loop and returns the last operation error joined with ctx.Err().
func Do(ctx context.Context, policy Policy, op Operation, retryable Retryable) error {
	if retryable == nil {
		retryable = Always
	}
	delay := policy.BaseDelay
	var err error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}

		var p *permanent
		if errors.As(err, &p) {
			return p.err
		}
		if attempt == policy.MaxRetries || !retryable(err) {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}

		delay *= 2
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return err
}
