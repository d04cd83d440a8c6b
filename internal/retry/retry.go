// Package retry implements the attempt/backoff state machine used for throttled
// GitHub API calls. The delay starts at InitialDelay and doubles after every
// throttled attempt; the sleep function is injectable so tests never wait.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxAttempts is the attempt ceiling used when none is configured.
	DefaultMaxAttempts = 6
	// DefaultInitialDelay is the delay applied before the second attempt.
	DefaultInitialDelay = 2 * time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy configures Do.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	// Sleep defaults to a context-aware timer.
	Sleep SleepFunc
	// OnRetry is called after a retryable failure, before sleeping.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns the policy with the default ceiling and delay.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
	}
}

// State tracks attempts and the current backoff delay.
type State struct {
	Attempt     int
	MaxAttempts int
	Delay       time.Duration
	LastAttempt time.Time
}

// NewState returns a fresh state for the given policy. A ceiling below one is
// treated as a single attempt.
func NewState(p Policy) *State {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delay := p.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}
	return &State{
		MaxAttempts: maxAttempts,
		Delay:       delay,
	}
}

// CanRetry returns true if another attempt is allowed.
func (s *State) CanRetry() bool {
	return s.Attempt < s.MaxAttempts
}

// Increment records the start of a new attempt.
// Returns ExhaustedError if the ceiling has already been reached.
func (s *State) Increment() error {
	if !s.CanRetry() {
		return &ExhaustedError{Attempts: s.Attempt}
	}
	s.Attempt++
	s.LastAttempt = time.Now()
	return nil
}

// Backoff returns the delay to wait before the next attempt and doubles the
// delay for the one after it.
func (s *State) Backoff() time.Duration {
	d := s.Delay
	s.Delay *= 2
	return d
}

// Reset clears the attempt counter and restores the initial delay.
func (s *State) Reset(initialDelay time.Duration) {
	s.Attempt = 0
	s.Delay = initialDelay
	s.LastAttempt = time.Time{}
}

// ExhaustedError is returned when every allowed attempt failed with a
// retryable error. Err holds the last failure.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("retry limit exhausted after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("retry limit exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as eligible for another attempt.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt ceiling is reached. Non-retryable errors are returned unchanged.
func Do(ctx context.Context, p Policy, op func(ctx context.Context, attempt int) error) error {
	state := NewState(p)
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for {
		if err := state.Increment(); err != nil {
			return err
		}

		err := op(ctx, state.Attempt)
		if err == nil {
			return nil
		}

		var r *retryableError
		if !errors.As(err, &r) {
			return err
		}

		if !state.CanRetry() {
			return &ExhaustedError{Attempts: state.Attempt, Err: r.err}
		}

		delay := state.Backoff()
		if p.OnRetry != nil {
			p.OnRetry(state.Attempt, delay, r.err)
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Sleep waits for d, returning early with ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
