package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_workspaces",
		SQL: `CREATE TABLE IF NOT EXISTS workspaces (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  owner_id      TEXT        NOT NULL,
  storage_used  BIGINT      NOT NULL DEFAULT 0 CHECK (storage_used >= 0),
  storage_limit BIGINT      NOT NULL CHECK (storage_limit >= 0),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_workspace_members",
		SQL: `CREATE TABLE IF NOT EXISTS workspace_members (
  workspace_id UUID        NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
  user_id      TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (workspace_id, user_id)
);`,
	},
	{
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  workspace_id UUID        NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
  parent_id    UUID        NULL REFERENCES folders (id) ON DELETE CASCADE,
  name         TEXT        NOT NULL CHECK (char_length(name) BETWEEN 1 AND 255),
  path         TEXT        NOT NULL,
  created_by   TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id         TEXT        NOT NULL,
  workspace_id     UUID        NOT NULL REFERENCES workspaces (id),
  folder_id        UUID        NULL REFERENCES folders (id) ON DELETE SET NULL,
  original_name    TEXT        NOT NULL,
  mime_type        TEXT        NOT NULL,
  current_blob_key TEXT        NOT NULL UNIQUE,
  current_size     BIGINT      NOT NULL CHECK (current_size >= 0),
  version_number   INTEGER     NOT NULL DEFAULT 1 CHECK (version_number >= 1),
  tags             JSONB       NOT NULL DEFAULT '[]'::jsonb,
  is_deleted       BOOLEAN     NOT NULL DEFAULT false,
  deleted_at       TIMESTAMPTZ NULL,
  blobs_purged_at  TIMESTAMPTZ NULL,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_document_versions",
		SQL: `CREATE TABLE IF NOT EXISTS document_versions (
  document_id UUID        NOT NULL REFERENCES documents (id),
  version     INTEGER     NOT NULL CHECK (version >= 1),
  blob_key    TEXT        NOT NULL UNIQUE,
  size        BIGINT      NOT NULL CHECK (size >= 0),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (document_id, version)
);`,
	},
	{
		Name: "create_table_shared_access",
		SQL: `CREATE TABLE IF NOT EXISTS shared_access (
  document_id UUID        NOT NULL REFERENCES documents (id),
  grantee_id  TEXT        NOT NULL,
  permission  SMALLINT    NOT NULL CHECK (permission BETWEEN 1 AND 3),
  expires_at  TIMESTAMPTZ NULL,
  created_by  TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (document_id, grantee_id)
);`,
	},
	{
		Name: "create_table_blob_reclaims",
		SQL: `CREATE TABLE IF NOT EXISTS blob_reclaims (
  blob_key      TEXT        PRIMARY KEY,
  reason        TEXT        NOT NULL,
  attempts      INTEGER     NOT NULL DEFAULT 0,
  last_error    TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_tried_at TIMESTAMPTZ NULL
);`,
	},
	{
		Name: "create_index_documents_workspace_folder",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_workspace_folder ON documents (workspace_id, folder_id);`,
	},
	{
		Name: "create_index_documents_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents (owner_id);`,
	},
	{
		Name: "create_index_documents_deleted",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_deleted ON documents (is_deleted, deleted_at);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_index_documents_tags",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_tags ON documents USING GIN (tags);`,
	},
	{
		Name: "create_index_shared_access_grantee",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_shared_access_grantee ON shared_access (grantee_id);`,
	},
	{
		Name: "create_index_shared_access_expires_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_shared_access_expires_at ON shared_access (expires_at);`,
	},
}

// EnsureMigrated checks if the sentinel 'blob_reclaims' table exists and runs migrations if it doesn't.
// Every step is idempotent, so a partially applied schema is completed on the next run.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.blob_reclaims') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
