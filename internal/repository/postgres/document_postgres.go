package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db querier
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db querier) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, owner_id, workspace_id, folder_id, original_name, mime_type,
		current_blob_key, current_size, version_number, tags, is_deleted, deleted_at,
		blobs_purged_at, created_at, updated_at`

// Create inserts the document row and every history entry it carries.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) error {
	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11, $12, $13, $14, $15)
	`
	_, err = r.db.ExecContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.WorkspaceID,
		nullString(doc.FolderID),
		doc.OriginalName,
		doc.MimeType,
		doc.CurrentBlobKey,
		doc.CurrentSize,
		doc.VersionNumber,
		tags,
		doc.IsDeleted,
		nullTime(doc.DeletedAt),
		nullTime(doc.BlobsPurgedAt),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "insert document")
	}
	for _, v := range doc.Versions {
		if err := r.insertVersion(ctx, doc.ID, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *DocumentPostgres) insertVersion(ctx context.Context, docID string, v model.DocumentVersion) error {
	const q = `
		INSERT INTO document_versions (document_id, version, blob_key, size, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, q, docID, v.Version, v.BlobKey, v.Size, v.CreatedAt); err != nil {
		return mapError(err, "insert document version")
	}
	return nil
}

// FindByID fetches a single document with its ordered version history.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	return r.find(ctx, id, false)
}

// FindByIDForUpdate locks the document row for the rest of the transaction.
func (r *DocumentPostgres) FindByIDForUpdate(ctx context.Context, id string) (*model.Document, error) {
	return r.find(ctx, id, true)
}

func (r *DocumentPostgres) find(ctx context.Context, id string, lock bool) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	if lock {
		q += ` FOR UPDATE`
	}
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err, "find document")
	}
	versions, err := r.loadVersions(ctx, []string{doc.ID})
	if err != nil {
		return nil, err
	}
	doc.Versions = versions[doc.ID]
	return doc, nil
}

func (r *DocumentPostgres) loadVersions(ctx context.Context, ids []string) (map[string][]model.DocumentVersion, error) {
	out := make(map[string][]model.DocumentVersion, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `
		SELECT document_id, version, blob_key, size, created_at
		FROM document_versions
		WHERE document_id IN (` + placeholders(1, len(ids)) + `)
		ORDER BY document_id, version ASC
	`
	rows, err := r.db.QueryContext(ctx, q, stringArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var docID string
		var v model.DocumentVersion
		if err := rows.Scan(&docID, &v.Version, &v.BlobKey, &v.Size, &v.CreatedAt); err != nil {
			return nil, err
		}
		out[docID] = append(out[docID], v)
	}
	return out, rows.Err()
}

// AppendVersion moves the current pointer with a compare-and-swap on version_number,
// then records the new history entry.
func (r *DocumentPostgres) AppendVersion(ctx context.Context, doc *model.Document, expectedVersion int) error {
	if len(doc.Versions) == 0 {
		return fmt.Errorf("append version: %w: empty history", appErr.ErrValidation)
	}
	v := doc.Versions[len(doc.Versions)-1]
	const q = `
		UPDATE documents
		SET current_blob_key = $2, current_size = $3, version_number = $4, updated_at = $5
		WHERE id = $1 AND version_number = $6 AND is_deleted = false
	`
	res, err := r.db.ExecContext(ctx, q, doc.ID, v.BlobKey, v.Size, v.Version, doc.UpdatedAt, expectedVersion)
	if err != nil {
		return mapError(err, "append version")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("append version: %w: version %d is no longer current", appErr.ErrConflict, expectedVersion)
	}
	return r.insertVersion(ctx, doc.ID, v)
}

func (r *DocumentPostgres) UpdateMetadata(ctx context.Context, doc *model.Document) error {
	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return err
	}
	const q = `
		UPDATE documents
		SET original_name = $2, folder_id = $3, tags = $4::jsonb, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, doc.ID, doc.OriginalName, nullString(doc.FolderID), tags, doc.UpdatedAt)
	if err != nil {
		return mapError(err, "update document")
	}
	return requireAffected(res, "update document")
}

func (r *DocumentPostgres) SetDeleted(ctx context.Context, doc *model.Document) error {
	const q = `
		UPDATE documents
		SET is_deleted = $2, deleted_at = $3, blobs_purged_at = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, doc.ID, doc.IsDeleted, nullTime(doc.DeletedAt), nullTime(doc.BlobsPurgedAt), doc.UpdatedAt)
	if err != nil {
		return mapError(err, "set document deleted")
	}
	return requireAffected(res, "set document deleted")
}

func (r *DocumentPostgres) MarkBlobsPurged(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE documents SET blobs_purged_at = $2 WHERE id = $1 AND blobs_purged_at IS NULL`
	if _, err := r.db.ExecContext(ctx, q, id, at); err != nil {
		return mapError(err, "mark blobs purged")
	}
	return nil
}

// List returns non-deleted documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, dq repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	conds := []string{"workspace_id = $1", "is_deleted = false"}
	args := []any{dq.WorkspaceID}

	if dq.FolderID != nil {
		args = append(args, *dq.FolderID)
		conds = append(conds, fmt.Sprintf("folder_id = $%d", len(args)))
	}
	if len(dq.Tags) > 0 {
		tags, err := encodeTags(dq.Tags)
		if err != nil {
			return nil, err
		}
		args = append(args, tags)
		conds = append(conds, fmt.Sprintf("tags ?| ARRAY(SELECT jsonb_array_elements_text($%d::jsonb))", len(args)))
	}
	if s := strings.TrimSpace(dq.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(original_name ILIKE $%d OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag) WHERE t.tag ILIKE $%d))", n, n))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	listArgs := append(append([]any{}, args...), dq.Page.Limit, dq.Page.Offset)
	qList := fmt.Sprintf(`SELECT %s FROM documents WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	ids := make([]string, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	versions, err := r.loadVersions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Versions = versions[items[i].ID]
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

func (r *DocumentPostgres) ListPurgeCandidates(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	const q = `
		SELECT id FROM documents
		WHERE is_deleted = true AND blobs_purged_at IS NULL AND deleted_at < $1
		ORDER BY deleted_at ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *DocumentPostgres) ReferencedKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	out := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	q := `
		SELECT v.blob_key
		FROM document_versions v
		JOIN documents d ON d.id = v.document_id
		WHERE d.blobs_purged_at IS NULL AND v.blob_key IN (` + placeholders(1, len(keys)) + `)
	`
	rows, err := r.db.QueryContext(ctx, q, stringArgs(keys)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out[k] = true
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d        model.Document
		folderID sql.NullString
		tags     []byte
		deleted  sql.NullTime
		purged   sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.WorkspaceID,
		&folderID,
		&d.OriginalName,
		&d.MimeType,
		&d.CurrentBlobKey,
		&d.CurrentSize,
		&d.VersionNumber,
		&tags,
		&d.IsDeleted,
		&deleted,
		&purged,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if folderID.Valid {
		d.FolderID = &folderID.String
	}
	if deleted.Valid {
		d.DeletedAt = &deleted.Time
	}
	if purged.Valid {
		d.BlobsPurgedAt = &purged.Time
	}
	d.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &d, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
