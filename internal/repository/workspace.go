package repository

import (
	"context"

	"docvault/internal/model"
)

// WorkspaceRepository owns the quota counters. Admit and Release are single conditional
// statements so concurrent calls on the same workspace serialize in the store.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *model.Workspace) error
	FindByID(ctx context.Context, id string) (*model.Workspace, error)
	// IsMember fails with errors.ErrNotFound when the workspace does not exist.
	IsMember(ctx context.Context, workspaceID, userID string) (bool, error)
	AddMember(ctx context.Context, workspaceID, userID string) error

	// Admit adds delta to storage_used only if the result stays within storage_limit and
	// returns the new usage. Denial yields errors.ErrQuotaExceeded; a missing workspace errors.ErrNotFound.
	Admit(ctx context.Context, workspaceID string, delta int64) (int64, error)

	// Release subtracts delta from storage_used, clamped at zero, and returns the new usage.
	Release(ctx context.Context, workspaceID string, delta int64) (int64, error)
}
