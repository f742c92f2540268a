package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

type GrantInput struct {
	GranteeID  string
	Permission model.Permission
	ExpiresAt  *time.Time
}

// ShareService manages permission grants. Only document owners may change them.
type ShareService interface {
	Grant(ctx context.Context, actorID, documentID string, in GrantInput) (*model.SharedAccess, error)
	Revoke(ctx context.Context, actorID, documentID, granteeID string) error
	ListForDocument(ctx context.Context, actorID, documentID string) ([]model.SharedAccess, error)
	ListSharedWithMe(ctx context.Context, actorID string) ([]model.SharedAccess, error)

	// PurgeExpired deletes inert grants. Expired grants already confer nothing.
	PurgeExpired(ctx context.Context) (int64, error)
}

type shareService struct {
	store repository.Store
	now   func() time.Time
}

func NewShareService(store repository.Store, now func() time.Time) ShareService {
	if now == nil {
		now = time.Now
	}
	return &shareService{store: store, now: now}
}

func (s *shareService) Grant(ctx context.Context, actorID, documentID string, in GrantInput) (*model.SharedAccess, error) {
	grantee := strings.TrimSpace(in.GranteeID)
	if grantee == "" {
		return nil, fmt.Errorf("grantee is required: %w", appErr.ErrValidation)
	}
	if !in.Permission.Valid() {
		return nil, fmt.Errorf("unknown permission: %w", appErr.ErrValidation)
	}
	now := s.now().UTC()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, fmt.Errorf("expiry must be in the future: %w", appErr.ErrValidation)
	}

	var grant *model.SharedAccess
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		doc, err := s.ownedDocument(ctx, repos, actorID, documentID)
		if err != nil {
			return err
		}
		if doc.IsOwner(grantee) {
			return fmt.Errorf("owner cannot be a grantee: %w", appErr.ErrValidation)
		}
		grant = &model.SharedAccess{
			DocumentID: doc.ID,
			GranteeID:  grantee,
			Permission: in.Permission,
			ExpiresAt:  in.ExpiresAt,
			CreatedBy:  actorID,
			CreatedAt:  now,
		}
		return repos.Shares.Upsert(ctx, grant)
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

func (s *shareService) Revoke(ctx context.Context, actorID, documentID, granteeID string) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := s.ownedDocument(ctx, repos, actorID, documentID); err != nil {
			return err
		}
		return repos.Shares.Delete(ctx, documentID, granteeID)
	})
}

func (s *shareService) ListForDocument(ctx context.Context, actorID, documentID string) ([]model.SharedAccess, error) {
	repos := s.store.Repos()
	if _, err := s.ownedDocument(ctx, repos, actorID, documentID); err != nil {
		return nil, err
	}
	return repos.Shares.ListActiveByDocument(ctx, documentID, s.now())
}

func (s *shareService) ListSharedWithMe(ctx context.Context, actorID string) ([]model.SharedAccess, error) {
	if actorID == "" {
		return nil, fmt.Errorf("list shares: %w", appErr.ErrForbidden)
	}
	return s.store.Repos().Shares.ListActiveByGrantee(ctx, actorID, s.now())
}

func (s *shareService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.Repos().Shares.PurgeExpired(ctx, s.now())
}

func (s *shareService) ownedDocument(ctx context.Context, repos repository.Repositories, actorID, documentID string) (*model.Document, error) {
	doc, err := repos.Documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, fmt.Errorf("document: %w", appErr.ErrNotFound)
	}
	if !doc.IsOwner(actorID) {
		return nil, fmt.Errorf("manage shares: %w", appErr.ErrForbidden)
	}
	return doc, nil
}
