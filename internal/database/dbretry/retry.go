package dbretry

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	maxElapsedTime  = 30 * time.Second
	initialInterval = 500 * time.Millisecond
	maxInterval     = 5 * time.Second
	maxRetries      = 5
)

// retryablePGClasses lists the PostgreSQL error codes worth retrying:
// connection exceptions (08), serialization failures and deadlocks (40),
// resource exhaustion (53), operator intervention and shutdown (57), and
// lock contention (55).
var retryablePGClasses = map[string]struct{}{
	"08000": {}, "08001": {}, "08003": {}, "08004": {},
	"08006": {}, "08007": {}, "08P01": {},
	"40001": {}, "40P01": {},
	"53000": {}, "53100": {}, "53200": {}, "53300": {}, "53400": {},
	"57000": {}, "57P01": {}, "57P02": {}, "57P03": {}, "57P04": {},
	"55006": {}, "55P03": {},
}

// IsRetryableError checks if the given error is worth retrying. Missing
// rows and constraint violations are never retryable.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return false
	}

	var pgerr *pgdriver.Error
	if errors.As(err, &pgerr) {
		_, ok := retryablePGClasses[pgerr.Field('C')]
		return ok
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	// Driver errors that surface only as strings
	msg := err.Error()
	for _, fragment := range []string{
		"connection reset by peer",
		"broken pipe",
		"connection refused",
		"no connection",
		"i/o timeout",
		"EOF",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}

	return false
}

func newBackoff(ctx context.Context) backoff.BackOffContext {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxElapsedTime),
		backoff.WithInitialInterval(initialInterval),
		backoff.WithMaxInterval(maxInterval),
	), maxRetries)

	return backoff.WithContext(b, ctx)
}

// Operation wraps a database operation that returns a value with retry
// logic. Non-retryable errors are returned unwrapped so callers can match
// sentinels like sql.ErrNoRows.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	var result T

	err := backoff.Retry(func() error {
		var err error

		result, err = operation(ctx)
		if err != nil && !IsRetryableError(err) {
			return backoff.Permanent(err)
		}

		return err
	}, newBackoff(ctx))
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return result, permanent.Err
		}

		return result, fmt.Errorf("database operation failed after retries: %w", err)
	}

	return result, nil
}

// NoResult wraps a database operation that doesn't return a result.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	_, err := Operation(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})

	return err
}

// Transaction wraps a database transaction with retry logic. The whole
// transaction reruns on a retryable failure.
func Transaction(ctx context.Context, db *bun.DB, fn func(context.Context, bun.Tx) error) error {
	return NoResult(ctx, func(ctx context.Context) error {
		return db.RunInTx(ctx, nil, fn)
	})
}
