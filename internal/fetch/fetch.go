// Package fetch retries oracle calls that were rejected for rate limiting,
// using a bounded exponential backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when every retry was spent on retryable failures.
var ErrExhausted = errors.New("retries exhausted")

// Config controls the backoff schedule.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialDelay is the wait before the first retry. It doubles on each
	// subsequent retry.
	InitialDelay time.Duration
}

// DefaultConfig waits 1s, 2s and 4s before giving up.
func DefaultConfig() Config {
	return Config{MaxRetries: 3, InitialDelay: time.Second}
}

// Delay returns the wait before retry n, counting from 1.
func (c Config) Delay(n int) time.Duration {
	return c.InitialDelay << (n - 1)
}

// Notice is published while the fetcher waits before a retry.
type Notice struct {
	Retry int
	Wait  time.Duration
	Err   error
}

// Message is a short human-readable status for the notice.
func (n Notice) Message() string {
	return fmt.Sprintf("The problem wizard is busy, retrying in %ds...", int(n.Wait.Round(time.Second)/time.Second))
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Fetcher runs operations under a retry policy.
type Fetcher struct {
	config  Config
	retryIf func(error) bool
	sleep   Sleeper
	notify  func(Notice)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithSleeper replaces the real-time sleeper, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(f *Fetcher) { f.sleep = s }
}

// WithNotify registers a callback invoked before each backoff wait. It may
// be called from any goroutine.
func WithNotify(fn func(Notice)) Option {
	return func(f *Fetcher) { f.notify = fn }
}

// New returns a Fetcher that retries errors for which retryIf returns true.
func New(cfg Config, retryIf func(error) bool, opts ...Option) *Fetcher {
	f := &Fetcher{
		config:  cfg,
		retryIf: retryIf,
		sleep:   Sleep,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Config returns the fetcher's backoff configuration.
func (f *Fetcher) Config() Config {
	return f.config
}

// Do invokes op until it succeeds, fails with a non-retryable error, or the
// retry budget is spent. A non-retryable error is returned unchanged; an
// exhausted budget returns an error wrapping both ErrExhausted and the last
// failure.
func Do[T any](ctx context.Context, f *Fetcher, op func(context.Context) (T, error)) (T, error) {
	var zero T
	for retry := 0; ; retry++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if f.retryIf == nil || !f.retryIf(err) {
			return zero, err
		}
		if retry == f.config.MaxRetries {
			return zero, fmt.Errorf("%w after %d retries: %w", ErrExhausted, retry, err)
		}

		wait := f.config.Delay(retry + 1)
		if f.notify != nil {
			f.notify(Notice{Retry: retry + 1, Wait: wait, Err: err})
		}
		if err := f.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
