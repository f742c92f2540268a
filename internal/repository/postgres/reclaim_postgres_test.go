package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
)

func TestReclaimPostgres_Record(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReclaimPostgres(db)
	now := time.Now().UTC()

	for _, k := range []string{"k1", "k2"} {
		mock.ExpectExec("INSERT INTO blob_reclaims (.+) ON CONFLICT").
			WithArgs(k, model.ReclaimReasonPurge, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	assert.NoError(t, repo.Record(context.Background(), []string{"k1", "k2"}, model.ReclaimReasonPurge, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReclaimPostgres_ListPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReclaimPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM blob_reclaims").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"blob_key", "reason", "attempts", "last_error", "created_at", "last_tried_at"}).
			AddRow("k1", "compensation", 0, "", now, nil).
			AddRow("k2", "purge", 2, "timeout", now, now))

	list, err := repo.ListPending(context.Background(), 50)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].LastTriedAt)
	assert.Equal(t, 2, list[1].Attempts)
	assert.NotNil(t, list[1].LastTriedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReclaimPostgres_ResolveAndMarkAttempt(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReclaimPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectExec("DELETE FROM blob_reclaims WHERE blob_key IN").
		WithArgs("k1", "k2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE blob_reclaims SET attempts = attempts \\+ 1").
		WithArgs("k3", "boom", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Resolve(ctx, []string{"k1", "k2"}))
	require.NoError(t, repo.Resolve(ctx, nil))
	require.NoError(t, repo.MarkAttempt(ctx, "k3", "boom", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}
