package service

import (
	"context"
	"fmt"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

// QuotaLedger guards the per-workspace storage counters. Admit and Release run
// inside the caller's transaction so the counter moves together with the
// metadata that justifies it.
type QuotaLedger struct {
	store repository.Store
}

func NewQuotaLedger(store repository.Store) *QuotaLedger {
	return &QuotaLedger{store: store}
}

// Admit charges delta bytes to the workspace or fails with errors.ErrQuotaExceeded.
// A denial is final; it is never retried.
func (q *QuotaLedger) Admit(ctx context.Context, repos repository.Repositories, workspaceID string, delta int64) (int64, error) {
	if delta < 0 {
		return 0, fmt.Errorf("admit: %w: negative size", appErr.ErrValidation)
	}
	return repos.Workspaces.Admit(ctx, workspaceID, delta)
}

// Release returns delta bytes to the workspace. Usage never drops below zero.
func (q *QuotaLedger) Release(ctx context.Context, repos repository.Repositories, workspaceID string, delta int64) (int64, error) {
	if delta < 0 {
		return 0, fmt.Errorf("release: %w: negative size", appErr.ErrValidation)
	}
	return repos.Workspaces.Release(ctx, workspaceID, delta)
}

// Check is an advisory pre-check made before any blob is written. The
// authoritative decision is the Admit inside the commit transaction.
func (q *QuotaLedger) Check(ctx context.Context, workspaceID string, delta int64) error {
	ws, err := q.store.Repos().Workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if !ws.HasStorageSpace(delta) {
		return fmt.Errorf("need %d bytes, %d available: %w", delta, max(ws.StorageLimit-ws.StorageUsed, 0), appErr.ErrQuotaExceeded)
	}
	return nil
}

func (q *QuotaLedger) Usage(ctx context.Context, workspaceID string) (*model.QuotaUsage, error) {
	ws, err := q.store.Repos().Workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	u := ws.Usage()
	return &u, nil
}
