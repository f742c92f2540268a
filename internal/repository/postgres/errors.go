package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	appErr "docvault/internal/pkg/errors"
)

const codeUniqueViolation = "23505"

// mapError translates driver errors into the shared taxonomy. Other errors,
// including retryable serialization failures, are returned unchanged.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, appErr.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return fmt.Errorf("%s: %w: %s", what, appErr.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, appErr.ErrNotFound)
	}
	return nil
}
