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

type WorkspaceService interface {
	// Create makes ownerID the owner and first member. A zero limit applies the default.
	Create(ctx context.Context, ownerID, name string, limit int64) (*model.Workspace, error)
	Get(ctx context.Context, actorID, workspaceID string) (*model.Workspace, error)
	AddMember(ctx context.Context, actorID, workspaceID, userID string) error
	Usage(ctx context.Context, actorID, workspaceID string) (*model.QuotaUsage, error)
}

type workspaceService struct {
	store        repository.Store
	quota        *QuotaLedger
	defaultLimit int64
	now          func() time.Time
}

func NewWorkspaceService(store repository.Store, quota *QuotaLedger, defaultLimit int64, now func() time.Time) WorkspaceService {
	if defaultLimit <= 0 {
		defaultLimit = model.DefaultStorageLimit
	}
	if now == nil {
		now = time.Now
	}
	return &workspaceService{store: store, quota: quota, defaultLimit: defaultLimit, now: now}
}

func (s *workspaceService) Create(ctx context.Context, ownerID, name string, limit int64) (*model.Workspace, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("create workspace: %w", appErr.ErrForbidden)
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("storage limit must not be negative: %w", appErr.ErrValidation)
	}
	if limit == 0 {
		limit = s.defaultLimit
	}

	now := s.now().UTC()
	ws := &model.Workspace{
		ID:           uuid.NewString(),
		Name:         name,
		OwnerID:      ownerID,
		StorageLimit: limit,
		Members:      []string{ownerID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Workspaces.Create(ctx, ws)
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *workspaceService) Get(ctx context.Context, actorID, workspaceID string) (*model.Workspace, error) {
	ws, err := s.store.Repos().Workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !ws.HasMember(actorID) {
		return nil, fmt.Errorf("workspace: %w", appErr.ErrForbidden)
	}
	return ws, nil
}

func (s *workspaceService) AddMember(ctx context.Context, actorID, workspaceID, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required: %w", appErr.ErrValidation)
	}
	return s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		ws, err := repos.Workspaces.FindByID(ctx, workspaceID)
		if err != nil {
			return err
		}
		if ws.OwnerID != actorID {
			return fmt.Errorf("add member: %w", appErr.ErrForbidden)
		}
		return repos.Workspaces.AddMember(ctx, workspaceID, userID)
	})
}

func (s *workspaceService) Usage(ctx context.Context, actorID, workspaceID string) (*model.QuotaUsage, error) {
	if _, err := s.Get(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}
	return s.quota.Usage(ctx, workspaceID)
}
