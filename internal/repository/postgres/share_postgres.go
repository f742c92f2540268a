package postgres

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// SharePostgres is a PostgreSQL implementation of repository.ShareRepository.
type SharePostgres struct {
	db querier
}

func NewSharePostgres(db querier) *SharePostgres {
	return &SharePostgres{db: db}
}

var _ repository.ShareRepository = (*SharePostgres)(nil)

const shareColumns = `document_id, grantee_id, permission, expires_at, created_by, created_at`

func (r *SharePostgres) Upsert(ctx context.Context, g *model.SharedAccess) error {
	const q = `
		INSERT INTO shared_access (` + shareColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (document_id, grantee_id)
		DO UPDATE SET permission = EXCLUDED.permission, expires_at = EXCLUDED.expires_at, created_by = EXCLUDED.created_by
	`
	if _, err := r.db.ExecContext(ctx, q,
		g.DocumentID, g.GranteeID, int(g.Permission), nullTime(g.ExpiresAt), g.CreatedBy, g.CreatedAt,
	); err != nil {
		return mapError(err, "upsert share")
	}
	return nil
}

func (r *SharePostgres) FindActive(ctx context.Context, documentID, granteeID string, now time.Time) (*model.SharedAccess, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM shared_access
		WHERE document_id = $1 AND grantee_id = $2 AND (expires_at IS NULL OR expires_at >= $3)
	`
	g, err := scanShare(r.db.QueryRowContext(ctx, q, documentID, granteeID, now))
	if err != nil {
		return nil, mapError(err, "find share")
	}
	return g, nil
}

func (r *SharePostgres) ListActiveByDocument(ctx context.Context, documentID string, now time.Time) ([]model.SharedAccess, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM shared_access
		WHERE document_id = $1 AND (expires_at IS NULL OR expires_at >= $2)
		ORDER BY created_at ASC, grantee_id ASC
	`
	return r.list(ctx, q, documentID, now)
}

func (r *SharePostgres) ListActiveByGrantee(ctx context.Context, granteeID string, now time.Time) ([]model.SharedAccess, error) {
	const q = `
		SELECT s.document_id, s.grantee_id, s.permission, s.expires_at, s.created_by, s.created_at
		FROM shared_access s
		JOIN documents d ON d.id = s.document_id
		WHERE s.grantee_id = $1 AND d.is_deleted = false AND (s.expires_at IS NULL OR s.expires_at >= $2)
		ORDER BY s.created_at DESC
	`
	return r.list(ctx, q, granteeID, now)
}

func (r *SharePostgres) list(ctx context.Context, q string, args ...any) ([]model.SharedAccess, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SharedAccess, 0)
	for rows.Next() {
		g, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *SharePostgres) Delete(ctx context.Context, documentID, granteeID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shared_access WHERE document_id = $1 AND grantee_id = $2`, documentID, granteeID)
	if err != nil {
		return err
	}
	return requireAffected(res, "delete share")
}

func (r *SharePostgres) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shared_access WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanShare(row rowScanner) (*model.SharedAccess, error) {
	var (
		g       model.SharedAccess
		perm    int
		expires sql.NullTime
	)
	if err := row.Scan(&g.DocumentID, &g.GranteeID, &perm, &expires, &g.CreatedBy, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.Permission = model.Permission(perm)
	if expires.Valid {
		g.ExpiresAt = &expires.Time
	}
	return &g, nil
}
