package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// ShareRepository stores permission grants, at most one per (document, grantee).
type ShareRepository interface {
	// Upsert creates the grant or replaces the permission and expiry of the existing one.
	Upsert(ctx context.Context, grant *model.SharedAccess) error

	// FindActive returns the grant unless it is absent or expired at now (errors.ErrNotFound).
	FindActive(ctx context.Context, documentID, granteeID string, now time.Time) (*model.SharedAccess, error)

	ListActiveByDocument(ctx context.Context, documentID string, now time.Time) ([]model.SharedAccess, error)
	ListActiveByGrantee(ctx context.Context, granteeID string, now time.Time) ([]model.SharedAccess, error)

	// Delete removes a grant; errors.ErrNotFound if there was none.
	Delete(ctx context.Context, documentID, granteeID string) error

	// PurgeExpired removes grants whose expiry is before now and returns how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
