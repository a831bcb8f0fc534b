package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(retries int) Config {
	return Config{
		MaxRetries:      retries,
		BaseDelay:       time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffMultiple: 2.0,
	}
}

func retryOn5xx(_ error, statusCode int, _ []byte) bool {
	return statusCode == 0 || statusCode >= 500
}

func TestExecute_SucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Execute(context.Background(), Options{Config: fastConfig(3), ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) (string, int, []byte, error) {
			calls++
			return "ok", 200, nil, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestExecute_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	got, err := Execute(context.Background(), Options{Config: fastConfig(3), ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) (int, int, []byte, error) {
			calls++
			if attempt < 2 {
				return 0, 503, nil, errors.New("unavailable")
			}
			return 42, 200, nil, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestExecute_ReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	_, err := Execute(context.Background(), Options{Config: fastConfig(2), ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) ([]byte, int, []byte, error) {
			calls++
			return nil, 500, nil, errors.New("boom")
		})

	require.EqualError(t, err, "boom")
	assert.Equal(t, 3, calls)
}

func TestExecute_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	_, err := Execute(context.Background(), Options{Config: fastConfig(3), ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) (string, int, []byte, error) {
			calls++
			return "", 401, nil, errors.New("unauthorized")
		})

	require.EqualError(t, err, "unauthorized")
	assert.Equal(t, 1, calls)
}

func TestExecute_ExhaustedWithoutError(t *testing.T) {
	_, err := Execute(context.Background(), Options{Config: fastConfig(1), ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) (string, int, []byte, error) {
			return "", 502, []byte("bad gateway"), nil
		})

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.MaxAttempts)
	assert.Equal(t, 502, exhausted.LastStatusCode)
	assert.Equal(t, "retry attempts exhausted for test API", err.Error())
}

func TestExecute_RetryableSuccessOnLastAttemptIsNotReturned(t *testing.T) {
	calls := 0
	got, err := Execute(context.Background(), Options{Config: fastConfig(2), ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) (string, int, []byte, error) {
			calls++
			return "partial", 503, nil, nil
		})

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Empty(t, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, exhausted.MaxAttempts)
}

func TestExecute_NetworkErrorRetried(t *testing.T) {
	calls := 0
	got, err := Execute(context.Background(), Options{Config: fastConfig(2), ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) (string, int, []byte, error) {
			calls++
			if attempt == 0 {
				return "", 0, nil, errors.New("connection reset")
			}
			return "ok", 200, nil, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestExecute_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: time.Second, BackoffMultiple: 1}

	_, err := Execute(ctx, Options{Config: cfg, ErrorChecker: retryOn5xx, APIName: "test"},
		func(attempt int) (string, int, []byte, error) {
			cancel()
			return "", 500, nil, errors.New("boom")
		})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_Delay(t *testing.T) {
	cfg := Config{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffMultiple: 2}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 300*time.Millisecond, cfg.Delay(2))
}
