package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

var documentCols = []string{
	"id", "owner_id", "workspace_id", "folder_id", "original_name", "mime_type",
	"current_blob_key", "current_size", "version_number", "tags", "is_deleted", "deleted_at",
	"blobs_purged_at", "created_at", "updated_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := model.NewDocument("doc-1", "alice", "ws-1", "report.pdf", "application/pdf", "ws-1/1-a-report.pdf", 100, now)
	doc.Tags = []string{"finance"}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "alice", "ws-1", nil, "report.pdf", "application/pdf",
			"ws-1/1-a-report.pdf", int64(100), 1, `["finance"]`, false, nil, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO document_versions").
		WithArgs("doc-1", 1, "ws-1/1-a-report.pdf", int64(100), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ").
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow("doc-1", "alice", "ws-1", "folder-1", "a.txt", "text/plain",
					"k2", 200, 2, `["x","y"]`, false, nil, nil, now, now))
		mock.ExpectQuery("SELECT (.+) FROM document_versions").
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows([]string{"document_id", "version", "blob_key", "size", "created_at"}).
				AddRow("doc-1", 1, "k1", 100, now).
				AddRow("doc-1", 2, "k2", 200, now))

		doc, err := repo.FindByID(ctx, "doc-1")

		require.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
		require.NotNil(t, doc.FolderID)
		assert.Equal(t, "folder-1", *doc.FolderID)
		assert.Equal(t, []string{"x", "y"}, doc.Tags)
		assert.Len(t, doc.Versions, 2)
		assert.Equal(t, int64(300), doc.Footprint())
		assert.Nil(t, doc.DeletedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.True(t, appErr.IsNotFound(err))
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByIDForUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) FOR UPDATE").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow("doc-1", "alice", "ws-1", nil, "a.txt", "text/plain",
				"k1", 100, 1, `[]`, true, now, nil, now, now))
	mock.ExpectQuery("SELECT (.+) FROM document_versions").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"document_id", "version", "blob_key", "size", "created_at"}).
			AddRow("doc-1", 1, "k1", 100, now))

	doc, err := repo.FindByIDForUpdate(context.Background(), "doc-1")

	require.NoError(t, err)
	assert.True(t, doc.IsDeleted)
	assert.NotNil(t, doc.DeletedAt)
	assert.Nil(t, doc.FolderID)
	assert.True(t, doc.Restorable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_AppendVersion(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	newDoc := func() *model.Document {
		doc := model.NewDocument("doc-1", "alice", "ws-1", "a.txt", "text/plain", "k1", 100, now)
		doc.AppendVersion("k2", 200, now)
		return doc
	}

	t.Run("current pointer moved", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents").
			WithArgs("doc-1", "k2", int64(200), 2, sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO document_versions").
			WithArgs("doc-1", 2, "k2", int64(200), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.AppendVersion(ctx, newDoc(), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale expected version", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AppendVersion(ctx, newDoc(), 1)

		assert.True(t, appErr.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_SetDeleted(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	now := time.Now().UTC()

	doc := model.NewDocument("doc-1", "alice", "ws-1", "a.txt", "text/plain", "k1", 100, now)
	doc.MarkDeleted(now)

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", true, now, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetDeleted(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateMetadata_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	now := time.Now().UTC()

	doc := model.NewDocument("doc-1", "alice", "ws-1", "a.txt", "text/plain", "k1", 100, now)

	mock.ExpectExec("UPDATE documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMetadata(context.Background(), doc)

	assert.True(t, appErr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	folder := "folder-1"
	q := repository.DocumentQuery{
		WorkspaceID: "ws-1",
		FolderID:    &folder,
		Tags:        []string{"finance"},
		Search:      "rep",
		Page:        repository.PageQuery{Limit: 10, Offset: 0},
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE workspace_id`).
		WithArgs("ws-1", "folder-1", `["finance"]`, "%rep%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE (.+) ORDER BY created_at DESC").
		WithArgs("ws-1", "folder-1", `["finance"]`, "%rep%", 10, 0).
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow("doc-1", "alice", "ws-1", "folder-1", "report.pdf", "application/pdf",
				"k1", 100, 1, `["finance"]`, false, nil, nil, now, now))
	mock.ExpectQuery("SELECT (.+) FROM document_versions").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"document_id", "version", "blob_key", "size", "created_at"}).
			AddRow("doc-1", 1, "k1", 100, now))

	res, err := repo.List(ctx, q)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Len(t, res.Items[0].Versions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ReferencedKeys(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("SELECT v.blob_key FROM document_versions").
		WithArgs("k1", "k2").
		WillReturnRows(sqlmock.NewRows([]string{"blob_key"}).AddRow("k2"))

	refs, err := repo.ReferencedKeys(context.Background(), []string{"k1", "k2"})

	require.NoError(t, err)
	assert.False(t, refs["k1"])
	assert.True(t, refs["k2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off`, escapeLike("50%_off"))
}
