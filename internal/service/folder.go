package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

type FolderService interface {
	Create(ctx context.Context, actorID, workspaceID string, parentID *string, name string) (*model.Folder, error)
	List(ctx context.Context, actorID, workspaceID string) ([]model.Folder, error)
}

type folderService struct {
	store repository.Store
	now   func() time.Time
}

func NewFolderService(store repository.Store, now func() time.Time) FolderService {
	if now == nil {
		now = time.Now
	}
	return &folderService{store: store, now: now}
}

func (s *folderService) Create(ctx context.Context, actorID, workspaceID string, parentID *string, name string) (*model.Folder, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if strings.Contains(name, "/") {
		return nil, fmt.Errorf("folder name must not contain '/': %w", appErr.ErrValidation)
	}

	var folder *model.Folder
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		ok, err := repos.Workspaces.IsMember(ctx, workspaceID, actorID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("create folder: %w", appErr.ErrForbidden)
		}

		var parent *model.Folder
		if parentID != nil && *parentID != "" {
			parent, err = repos.Folders.FindByID(ctx, *parentID)
			if err != nil {
				if appErr.IsNotFound(err) {
					return fmt.Errorf("parent folder does not exist: %w", appErr.ErrValidation)
				}
				return err
			}
			if parent.WorkspaceID != workspaceID {
				return fmt.Errorf("parent folder belongs to another workspace: %w", appErr.ErrValidation)
			}
		}

		folder = &model.Folder{
			ID:          uuid.NewString(),
			WorkspaceID: workspaceID,
			Name:        name,
			Path:        model.FolderPath(parent, name),
			CreatedBy:   actorID,
			CreatedAt:   s.now().UTC(),
		}
		if parent != nil {
			pid := parent.ID
			folder.ParentID = &pid
		}
		return repos.Folders.Create(ctx, folder)
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) List(ctx context.Context, actorID, workspaceID string) ([]model.Folder, error) {
	repos := s.store.Repos()
	ok, err := repos.Workspaces.IsMember(ctx, workspaceID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("list folders: %w", appErr.ErrForbidden)
	}
	return repos.Folders.ListByWorkspace(ctx, workspaceID)
}
