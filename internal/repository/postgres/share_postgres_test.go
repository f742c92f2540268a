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
)

var shareCols = []string{"document_id", "grantee_id", "permission", "expires_at", "created_by", "created_at"}

func TestSharePostgres_Upsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSharePostgres(db)
	now := time.Now().UTC()

	g := &model.SharedAccess{DocumentID: "doc-1", GranteeID: "bob", Permission: model.PermissionDownload, CreatedBy: "alice", CreatedAt: now}

	mock.ExpectExec("INSERT INTO shared_access (.+) ON CONFLICT").
		WithArgs("doc-1", "bob", 2, nil, "alice", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Upsert(context.Background(), g))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_FindActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSharePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("active", func(t *testing.T) {
		exp := now.Add(time.Hour)
		mock.ExpectQuery("SELECT (.+) FROM shared_access").
			WithArgs("doc-1", "bob", now).
			WillReturnRows(sqlmock.NewRows(shareCols).AddRow("doc-1", "bob", 3, exp, "alice", now))

		g, err := repo.FindActive(ctx, "doc-1", "bob", now)

		require.NoError(t, err)
		assert.Equal(t, model.PermissionEdit, g.Permission)
		require.NotNil(t, g.ExpiresAt)
		assert.True(t, g.ExpiresAt.Equal(exp))
	})

	t.Run("absent or expired", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM shared_access").
			WithArgs("doc-1", "carol", now).
			WillReturnError(sql.ErrNoRows)

		g, err := repo.FindActive(ctx, "doc-1", "carol", now)

		assert.True(t, appErr.IsNotFound(err))
		assert.Nil(t, g)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_ListActiveByGrantee(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSharePostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM shared_access s JOIN documents d").
		WithArgs("bob", now).
		WillReturnRows(sqlmock.NewRows(shareCols).
			AddRow("doc-1", "bob", 1, nil, "alice", now).
			AddRow("doc-2", "bob", 2, nil, "carol", now))

	list, err := repo.ListActiveByGrantee(context.Background(), "bob", now)

	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Nil(t, list[0].ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSharePostgres(db)

	mock.ExpectExec("DELETE FROM shared_access").
		WithArgs("doc-1", "bob").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "doc-1", "bob")

	assert.True(t, appErr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_PurgeExpired(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSharePostgres(db)
	now := time.Now().UTC()

	mock.ExpectExec("DELETE FROM shared_access WHERE expires_at IS NOT NULL").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeExpired(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
