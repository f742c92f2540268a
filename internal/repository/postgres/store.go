package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docvault/internal/database"
	"docvault/internal/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every repository can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the PostgreSQL implementation of repository.Store.
type Store struct {
	db       *sql.DB
	maxTries int
}

// NewStore creates a Store. maxTries bounds how often a transaction that lost a
// serialization race is replayed.
func NewStore(db *sql.DB, maxTries int) *Store {
	return &Store{db: db, maxTries: maxTries}
}

var _ repository.Store = (*Store)(nil)

// Repos returns repositories that run each statement in its own implicit transaction.
func (s *Store) Repos() repository.Repositories {
	return reposFor(s.db)
}

// WithinTx runs fn in one database transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return database.WithTx(ctx, s.db, s.maxTries, func(tx *sql.Tx) error {
		return fn(ctx, reposFor(tx))
	})
}

func reposFor(q querier) repository.Repositories {
	return repository.Repositories{
		Documents:  NewDocumentPostgres(q),
		Workspaces: NewWorkspacePostgres(q),
		Shares:     NewSharePostgres(q),
		Folders:    NewFolderPostgres(q),
		Reclaims:   NewReclaimPostgres(q),
	}
}

// placeholders renders "$start, $start+1, ..." for n arguments.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
