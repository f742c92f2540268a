package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db querier
}

func NewFolderPostgres(db querier) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderColumns = `id, workspace_id, parent_id, name, path, created_by, created_at`

func (r *FolderPostgres) Create(ctx context.Context, f *model.Folder) error {
	const q = `INSERT INTO folders (` + folderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, q,
		f.ID, f.WorkspaceID, nullString(f.ParentID), f.Name, f.Path, f.CreatedBy, f.CreatedAt,
	); err != nil {
		return mapError(err, "insert folder")
	}
	return nil
}

func (r *FolderPostgres) FindByID(ctx context.Context, id string) (*model.Folder, error) {
	const q = `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`
	f, err := scanFolder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err, "find folder")
	}
	return f, nil
}

func (r *FolderPostgres) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Folder, error) {
	const q = `SELECT ` + folderColumns + ` FROM folders WHERE workspace_id = $1 ORDER BY path ASC`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func scanFolder(row rowScanner) (*model.Folder, error) {
	var (
		f      model.Folder
		parent sql.NullString
	)
	if err := row.Scan(&f.ID, &f.WorkspaceID, &parent, &f.Name, &f.Path, &f.CreatedBy, &f.CreatedAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		f.ParentID = &parent.String
	}
	return &f, nil
}
