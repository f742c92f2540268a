package postgres

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// ReclaimPostgres is a PostgreSQL implementation of repository.ReclaimRepository.
type ReclaimPostgres struct {
	db querier
}

func NewReclaimPostgres(db querier) *ReclaimPostgres {
	return &ReclaimPostgres{db: db}
}

var _ repository.ReclaimRepository = (*ReclaimPostgres)(nil)

func (r *ReclaimPostgres) Record(ctx context.Context, keys []string, reason string, at time.Time) error {
	const q = `
		INSERT INTO blob_reclaims (blob_key, reason, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (blob_key) DO NOTHING
	`
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, q, k, reason, at); err != nil {
			return mapError(err, "record reclaim")
		}
	}
	return nil
}

// ListPending returns the least recently attempted entries first.
func (r *ReclaimPostgres) ListPending(ctx context.Context, limit int) ([]model.BlobReclaim, error) {
	const q = `
		SELECT blob_key, reason, attempts, last_error, created_at, last_tried_at
		FROM blob_reclaims
		ORDER BY last_tried_at ASC NULLS FIRST, created_at ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BlobReclaim, 0)
	for rows.Next() {
		var (
			e     model.BlobReclaim
			tried sql.NullTime
		)
		if err := rows.Scan(&e.BlobKey, &e.Reason, &e.Attempts, &e.LastError, &e.CreatedAt, &tried); err != nil {
			return nil, err
		}
		if tried.Valid {
			e.LastTriedAt = &tried.Time
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ReclaimPostgres) Resolve(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	q := `DELETE FROM blob_reclaims WHERE blob_key IN (` + placeholders(1, len(keys)) + `)`
	_, err := r.db.ExecContext(ctx, q, stringArgs(keys)...)
	return err
}

func (r *ReclaimPostgres) MarkAttempt(ctx context.Context, key string, lastErr string, at time.Time) error {
	const q = `
		UPDATE blob_reclaims
		SET attempts = attempts + 1, last_error = $2, last_tried_at = $3
		WHERE blob_key = $1
	`
	_, err := r.db.ExecContext(ctx, q, key, lastErr, at)
	return err
}
