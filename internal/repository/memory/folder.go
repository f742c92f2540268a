package memory

import (
	"context"
	"fmt"
	"sort"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
)

type folderRepo struct {
	s    *Store
	inTx bool
}

func (r *folderRepo) Create(ctx context.Context, f *model.Folder) error {
	return r.s.run(r.inTx, func(st *state) error {
		if _, ok := st.folders[f.ID]; ok {
			return fmt.Errorf("insert folder: %w: id %s exists", appErr.ErrConflict, f.ID)
		}
		c := *f
		c.ParentID = copyString(f.ParentID)
		st.folders[f.ID] = &c
		return nil
	})
}

func (r *folderRepo) FindByID(ctx context.Context, id string) (*model.Folder, error) {
	var out *model.Folder
	err := r.s.run(r.inTx, func(st *state) error {
		f, ok := st.folders[id]
		if !ok {
			return fmt.Errorf("find folder: %w", appErr.ErrNotFound)
		}
		c := *f
		out = &c
		return nil
	})
	return out, err
}

func (r *folderRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Folder, error) {
	out := make([]model.Folder, 0)
	err := r.s.run(r.inTx, func(st *state) error {
		for _, f := range st.folders {
			if f.WorkspaceID == workspaceID {
				out = append(out, *f)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, err
}
