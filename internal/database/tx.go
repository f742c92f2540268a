package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes returned by PostgreSQL when a transaction lost a concurrency race
// and can be replayed from the start.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err is a transient concurrency failure.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
	}
	return false
}

var newBackOff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return b
}

// WithTx runs fn inside a transaction and commits it. The whole transaction is replayed
// when it fails with a retryable error, up to maxTries attempts; any other error rolls
// back and is returned as-is.
func WithTx(ctx context.Context, db *sql.DB, maxTries int, fn func(tx *sql.Tx) error) error {
	if maxTries <= 0 {
		maxTries = 1
	}
	op := func() (struct{}, error) {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("begin tx: %w", err))
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return struct{}{}, classify(err)
		}
		if err := tx.Commit(); err != nil {
			return struct{}{}, classify(fmt.Errorf("commit tx: %w", err))
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(uint(maxTries)),
	)
	return unwrapPermanent(err)
}

func classify(err error) error {
	if IsRetryable(err) {
		return err
	}
	return backoff.Permanent(err)
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Unwrap()
	}
	return err
}
