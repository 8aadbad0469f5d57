// Package retry implements the Interaction Client's exponential backoff
// retry policy: up to three attempts, starting at a one second delay and
// doubling, with jitter to avoid thundering-herd retries against the model
// API. Only the non-streaming send path uses it; a streaming response's
// mid-stream errors cannot be transparently retried once bytes have reached
// the caller.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aravindhsampath/chitti/internal/chitterr"
)

// Config tunes the retry loop. Zero values are replaced by Do with the
// defaults documented below.
type Config struct {
	// MaxRetries is the number of retry attempts after the first failure.
	// Default: 2 (up to 3 total attempts).
	MaxRetries int

	// InitialBackoff is the delay before the first retry. Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed delay. Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier. Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds noise in [0, JitterFraction*backoff]. Default: 0.1.
	JitterFraction float64

	// ShouldRetry decides whether err warrants another attempt. Defaults to
	// DefaultShouldRetry, which retries network errors and HTTP 429/500/503.
	ShouldRetry func(error) bool
}

// DefaultShouldRetry retries transport failures and the three HTTP status
// codes treated as transient: 429, 500, 503. Any other *APIError is treated
// as non-retryable and returned immediately.
func DefaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if chitterr.IsTransportError(err) {
		return true
	}
	var apiErr *chitterr.APIError
	if asAPIError(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

func asAPIError(err error, target **chitterr.APIError) bool {
	for err != nil {
		if apiErr, ok := err.(*chitterr.APIError); ok {
			*target = apiErr
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

func applyDefaults(cfg *Config) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.BackoffFactor == 0 {
		cfg.BackoffFactor = 2.0
	}
	if cfg.JitterFraction == 0 {
		cfg.JitterFraction = 0.1
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = DefaultShouldRetry
	}
}

// computeBackoff returns the delay before the given 0-indexed attempt:
// min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) plus jitter.
func computeBackoff(cfg Config, attempt int) time.Duration {
	base := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt))
	if base > float64(cfg.MaxBackoff) {
		base = float64(cfg.MaxBackoff)
	}
	jitter := base * cfg.JitterFraction * rand.Float64()
	return time.Duration(base + jitter)
}

// Do runs fn, retrying according to cfg when fn returns a retryable error.
// Backoff sleeps respect ctx cancellation. Cloneable is the caller's
// assertion that the request body can be safely resent; when false, Do
// performs a single attempt regardless of cfg and logs nothing. The
// Interaction Client's Send always passes true; no caller logs a warning
// for a skipped retry.
func Do(ctx context.Context, cfg Config, cloneable bool, fn func(ctx context.Context) error) error {
	applyDefaults(&cfg)

	maxAttempts := cfg.MaxRetries
	if !cloneable {
		maxAttempts = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := computeBackoff(cfg, attempt-1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !cfg.ShouldRetry(err) {
			return err
		}
	}

	return fmt.Errorf("%w after %d retries: %w", chitterr.ErrRetriesExhausted, maxAttempts, lastErr)
}
