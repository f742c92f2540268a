package service

import (
	"context"
	"fmt"
	"time"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

// AccessResolver computes what an actor may do with a document. Owners hold every
// permission; anyone else holds what an unexpired grant gives them.
type AccessResolver struct {
	store repository.Store
	now   func() time.Time
}

func NewAccessResolver(store repository.Store, now func() time.Time) *AccessResolver {
	if now == nil {
		now = time.Now
	}
	return &AccessResolver{store: store, now: now}
}

// Resolve returns an empty capability for strangers and for expired grants alike.
func (a *AccessResolver) Resolve(ctx context.Context, doc *model.Document, userID string) (model.Capability, error) {
	if doc.IsOwner(userID) {
		return model.FullCapability, nil
	}
	if userID == "" {
		return 0, nil
	}
	grant, err := a.store.Repos().Shares.FindActive(ctx, doc.ID, userID, a.now())
	if err != nil {
		if appErr.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return grant.Capability(a.now()), nil
}

// Require fails with errors.ErrForbidden unless userID holds p on doc.
func (a *AccessResolver) Require(ctx context.Context, doc *model.Document, userID string, p model.Permission) error {
	c, err := a.Resolve(ctx, doc, userID)
	if err != nil {
		return err
	}
	if !c.Allows(p) {
		return fmt.Errorf("%s on document: %w", p, appErr.ErrForbidden)
	}
	return nil
}
