// Package retry runs HTTP-style calls with capped exponential backoff.
package retry

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// Config holds the configuration for retry logic
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultConfig returns the retry configuration used by the LLM client
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		BaseDelay:       200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// ErrorChecker reports whether an attempt should be retried
type ErrorChecker func(err error, statusCode int, responseBody []byte) bool

// RetryableFunc is a single attempt. attempt starts at 0.
type RetryableFunc[T any] func(attempt int) (result T, statusCode int, responseBody []byte, err error)

// Options configures retry behavior
type Options struct {
	Config       Config
	ErrorChecker ErrorChecker
	Logger       *slog.Logger
	APIName      string
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Delay computes the backoff before retry number attempt+1
func (c Config) Delay(attempt int) time.Duration {
	delay := time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(attempt)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// Execute runs fn until it succeeds, returns a non-retryable error, or the
// retry budget is spent. The last attempt's error is returned when retries
// run out.
func Execute[T any](ctx context.Context, opts Options, fn RetryableFunc[T]) (T, error) {
	var zero T
	var lastErr error
	var lastStatusCode int
	var lastResponseBody []byte

	log := opts.logger().With("api", opts.APIName)
	maxAttempts := opts.Config.MaxRetries + 1

	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.Config.Delay(attempt - 1)
			log.Debug("retrying request", "attempt", attempt+1, "max_attempts", maxAttempts, "delay", delay)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, statusCode, responseBody, err := fn(attempt)
		lastErr = err
		lastStatusCode = statusCode
		lastResponseBody = responseBody

		if opts.ErrorChecker != nil && opts.ErrorChecker(err, statusCode, responseBody) {
			if err != nil {
				log.Warn("request failed", "attempt", attempt+1, "max_attempts", maxAttempts, "error", err)
			} else {
				log.Warn("retryable response", "attempt", attempt+1, "max_attempts", maxAttempts, "status", statusCode)
			}
			continue
		}

		if err == nil {
			if attempt > 0 {
				log.Info("request succeeded after retry", "attempt", attempt+1, "max_attempts", maxAttempts)
			}
			return result, nil
		}

		return zero, err
	}

	if lastErr != nil {
		return zero, lastErr
	}

	return zero, &RetryExhaustedError{
		APIName:        opts.APIName,
		MaxAttempts:    maxAttempts,
		LastStatusCode: lastStatusCode,
		LastResponse:   lastResponseBody,
	}
}

// RetryExhaustedError is returned when every attempt produced a retryable
// response without an error value
type RetryExhaustedError struct {
	APIName        string
	MaxAttempts    int
	LastStatusCode int
	LastResponse   []byte
}

func (e *RetryExhaustedError) Error() string {
	return "retry attempts exhausted for " + e.APIName + " API"
}
