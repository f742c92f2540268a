package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

// WorkspacePostgres is a PostgreSQL implementation of repository.WorkspaceRepository.
type WorkspacePostgres struct {
	db querier
}

func NewWorkspacePostgres(db querier) *WorkspacePostgres {
	return &WorkspacePostgres{db: db}
}

var _ repository.WorkspaceRepository = (*WorkspacePostgres)(nil)

func (r *WorkspacePostgres) Create(ctx context.Context, ws *model.Workspace) error {
	const q = `
		INSERT INTO workspaces (id, name, owner_id, storage_used, storage_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, q,
		ws.ID, ws.Name, ws.OwnerID, ws.StorageUsed, ws.StorageLimit, ws.CreatedAt, ws.UpdatedAt,
	); err != nil {
		return mapError(err, "insert workspace")
	}
	for _, m := range ws.Members {
		if err := r.AddMember(ctx, ws.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *WorkspacePostgres) FindByID(ctx context.Context, id string) (*model.Workspace, error) {
	const q = `
		SELECT id, name, owner_id, storage_used, storage_limit, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`
	var ws model.Workspace
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&ws.ID, &ws.Name, &ws.OwnerID, &ws.StorageUsed, &ws.StorageLimit, &ws.CreatedAt, &ws.UpdatedAt,
	); err != nil {
		return nil, mapError(err, "find workspace")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM workspace_members WHERE workspace_id = $1 ORDER BY created_at ASC, user_id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ws.Members = make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		ws.Members = append(ws.Members, m)
	}
	return &ws, rows.Err()
}

// IsMember treats the workspace owner as a member even without a membership row.
func (r *WorkspacePostgres) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	const q = `
		SELECT owner_id = $2 OR EXISTS (
			SELECT 1 FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
		)
		FROM workspaces
		WHERE id = $1
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, workspaceID, userID).Scan(&ok); err != nil {
		return false, mapError(err, "workspace membership")
	}
	return ok, nil
}

func (r *WorkspacePostgres) AddMember(ctx context.Context, workspaceID, userID string) error {
	const q = `
		INSERT INTO workspace_members (workspace_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (workspace_id, user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, q, workspaceID, userID); err != nil {
		return mapError(err, "add workspace member")
	}
	return nil
}

// Admit is a single conditional increment; the row lock taken by UPDATE serializes
// concurrent admissions against the same workspace.
func (r *WorkspacePostgres) Admit(ctx context.Context, workspaceID string, delta int64) (int64, error) {
	const q = `
		UPDATE workspaces
		SET storage_used = storage_used + $2, updated_at = now()
		WHERE id = $1 AND $2 <= storage_limit - storage_used
		RETURNING storage_used
	`
	var used int64
	err := r.db.QueryRowContext(ctx, q, workspaceID, delta).Scan(&used)
	if err == nil {
		return used, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM workspaces WHERE id = $1)`, workspaceID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("admit: workspace %s: %w", workspaceID, appErr.ErrNotFound)
	}
	return 0, fmt.Errorf("admit %d bytes: %w", delta, appErr.ErrQuotaExceeded)
}

func (r *WorkspacePostgres) Release(ctx context.Context, workspaceID string, delta int64) (int64, error) {
	const q = `
		UPDATE workspaces
		SET storage_used = GREATEST(storage_used - $2, 0), updated_at = now()
		WHERE id = $1
		RETURNING storage_used
	`
	var used int64
	if err := r.db.QueryRowContext(ctx, q, workspaceID, delta).Scan(&used); err != nil {
		return 0, mapError(err, "release")
	}
	return used, nil
}
