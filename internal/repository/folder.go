package repository

import (
	"context"

	"docvault/internal/model"
)

type FolderRepository interface {
	Create(ctx context.Context, f *model.Folder) error
	FindByID(ctx context.Context, id string) (*model.Folder, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Folder, error)
}
