package memory

import (
	"context"
	"fmt"
	"time"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
)

type workspaceRepo struct {
	s    *Store
	inTx bool
}

func (r *workspaceRepo) Create(ctx context.Context, ws *model.Workspace) error {
	return r.s.run(r.inTx, func(st *state) error {
		if _, ok := st.workspaces[ws.ID]; ok {
			return fmt.Errorf("insert workspace: %w: id %s exists", appErr.ErrConflict, ws.ID)
		}
		st.workspaces[ws.ID] = copyWorkspace(ws)
		return nil
	})
}

func (r *workspaceRepo) FindByID(ctx context.Context, id string) (*model.Workspace, error) {
	var out *model.Workspace
	err := r.s.run(r.inTx, func(st *state) error {
		ws, ok := st.workspaces[id]
		if !ok {
			return fmt.Errorf("find workspace: %w", appErr.ErrNotFound)
		}
		out = copyWorkspace(ws)
		return nil
	})
	return out, err
}

func (r *workspaceRepo) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	var ok bool
	err := r.s.run(r.inTx, func(st *state) error {
		ws, found := st.workspaces[workspaceID]
		if !found {
			return fmt.Errorf("workspace membership: %w", appErr.ErrNotFound)
		}
		ok = ws.HasMember(userID)
		return nil
	})
	return ok, err
}

func (r *workspaceRepo) AddMember(ctx context.Context, workspaceID, userID string) error {
	return r.s.run(r.inTx, func(st *state) error {
		ws, ok := st.workspaces[workspaceID]
		if !ok {
			return fmt.Errorf("add workspace member: %w", appErr.ErrNotFound)
		}
		for _, m := range ws.Members {
			if m == userID {
				return nil
			}
		}
		ws.Members = append(ws.Members, userID)
		return nil
	})
}

func (r *workspaceRepo) Admit(ctx context.Context, workspaceID string, delta int64) (int64, error) {
	var used int64
	err := r.s.run(r.inTx, func(st *state) error {
		ws, ok := st.workspaces[workspaceID]
		if !ok {
			return fmt.Errorf("admit: workspace %s: %w", workspaceID, appErr.ErrNotFound)
		}
		if !ws.HasStorageSpace(delta) {
			return fmt.Errorf("admit %d bytes: %w", delta, appErr.ErrQuotaExceeded)
		}
		ws.StorageUsed += delta
		ws.UpdatedAt = time.Now().UTC()
		used = ws.StorageUsed
		return nil
	})
	return used, err
}

func (r *workspaceRepo) Release(ctx context.Context, workspaceID string, delta int64) (int64, error) {
	var used int64
	err := r.s.run(r.inTx, func(st *state) error {
		ws, ok := st.workspaces[workspaceID]
		if !ok {
			return fmt.Errorf("release: %w", appErr.ErrNotFound)
		}
		ws.StorageUsed = max(ws.StorageUsed-delta, 0)
		ws.UpdatedAt = time.Now().UTC()
		used = ws.StorageUsed
		return nil
	})
	return used, err
}
