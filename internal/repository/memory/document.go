package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
)

type documentRepo struct {
	s    *Store
	inTx bool
}

// keyInUse reports whether any stored version references key.
func (st *state) keyInUse(key string) bool {
	for _, d := range st.documents {
		for _, v := range d.Versions {
			if v.BlobKey == key {
				return true
			}
		}
	}
	return false
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	return r.s.run(r.inTx, func(st *state) error {
		if _, ok := st.documents[doc.ID]; ok {
			return fmt.Errorf("insert document: %w: id %s exists", appErr.ErrConflict, doc.ID)
		}
		if _, ok := st.workspaces[doc.WorkspaceID]; !ok {
			return fmt.Errorf("insert document: workspace %s: %w", doc.WorkspaceID, appErr.ErrNotFound)
		}
		for _, v := range doc.Versions {
			if st.keyInUse(v.BlobKey) {
				return fmt.Errorf("insert document: %w: blob key in use", appErr.ErrConflict)
			}
		}
		st.documents[doc.ID] = copyDocument(doc)
		return nil
	})
}

func (r *documentRepo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var out *model.Document
	err := r.s.run(r.inTx, func(st *state) error {
		d, ok := st.documents[id]
		if !ok {
			return fmt.Errorf("find document: %w", appErr.ErrNotFound)
		}
		out = copyDocument(d)
		return nil
	})
	return out, err
}

// FindByIDForUpdate needs no extra locking: transactions already run one at a time.
func (r *documentRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.Document, error) {
	return r.FindByID(ctx, id)
}

func (r *documentRepo) AppendVersion(ctx context.Context, doc *model.Document, expectedVersion int) error {
	if len(doc.Versions) == 0 {
		return fmt.Errorf("append version: %w: empty history", appErr.ErrValidation)
	}
	v := doc.Versions[len(doc.Versions)-1]
	return r.s.run(r.inTx, func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return fmt.Errorf("append version: %w", appErr.ErrNotFound)
		}
		if cur.IsDeleted || cur.VersionNumber != expectedVersion {
			return fmt.Errorf("append version: %w: version %d is no longer current", appErr.ErrConflict, expectedVersion)
		}
		if st.keyInUse(v.BlobKey) {
			return fmt.Errorf("append version: %w: blob key in use", appErr.ErrConflict)
		}
		cur.Versions = append(cur.Versions, v)
		cur.CurrentBlobKey = v.BlobKey
		cur.CurrentSize = v.Size
		cur.VersionNumber = v.Version
		cur.UpdatedAt = doc.UpdatedAt
		return nil
	})
}

func (r *documentRepo) UpdateMetadata(ctx context.Context, doc *model.Document) error {
	return r.s.run(r.inTx, func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return fmt.Errorf("update document: %w", appErr.ErrNotFound)
		}
		cur.OriginalName = doc.OriginalName
		cur.FolderID = copyString(doc.FolderID)
		cur.Tags = append([]string{}, doc.Tags...)
		cur.UpdatedAt = doc.UpdatedAt
		return nil
	})
}

func (r *documentRepo) SetDeleted(ctx context.Context, doc *model.Document) error {
	return r.s.run(r.inTx, func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return fmt.Errorf("set document deleted: %w", appErr.ErrNotFound)
		}
		cur.IsDeleted = doc.IsDeleted
		cur.DeletedAt = copyTime(doc.DeletedAt)
		cur.BlobsPurgedAt = copyTime(doc.BlobsPurgedAt)
		cur.UpdatedAt = doc.UpdatedAt
		return nil
	})
}

func (r *documentRepo) MarkBlobsPurged(ctx context.Context, id string, at time.Time) error {
	return r.s.run(r.inTx, func(st *state) error {
		if cur, ok := st.documents[id]; ok && cur.BlobsPurgedAt == nil {
			cur.BlobsPurgedAt = &at
		}
		return nil
	})
}

func (r *documentRepo) List(ctx context.Context, q repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	var matched []model.Document
	err := r.s.run(r.inTx, func(st *state) error {
		for _, d := range st.documents {
			if matchesQuery(d, q) {
				matched = append(matched, *copyDocument(d))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(q.Page.Offset, total)
	end := total
	if q.Page.Limit > 0 {
		end = min(start+q.Page.Limit, total)
	}
	items := append([]model.Document{}, matched[start:end]...)
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

func matchesQuery(d *model.Document, q repository.DocumentQuery) bool {
	if d.IsDeleted || d.WorkspaceID != q.WorkspaceID {
		return false
	}
	if q.FolderID != nil && (d.FolderID == nil || *d.FolderID != *q.FolderID) {
		return false
	}
	if len(q.Tags) > 0 && !hasAnyTag(d.Tags, q.Tags) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		if strings.Contains(strings.ToLower(d.OriginalName), s) {
			return true
		}
		for _, t := range d.Tags {
			if strings.Contains(strings.ToLower(t), s) {
				return true
			}
		}
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (r *documentRepo) ListPurgeCandidates(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	var cands []*model.Document
	err := r.s.run(r.inTx, func(st *state) error {
		for _, d := range st.documents {
			if d.IsDeleted && d.BlobsPurgedAt == nil && d.DeletedAt != nil && d.DeletedAt.Before(cutoff) {
				cands = append(cands, d)
			}
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].DeletedAt.Before(*cands[j].DeletedAt) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cands))
	for _, d := range cands {
		if limit > 0 && len(ids) == limit {
			break
		}
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *documentRepo) ReferencedKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	out := make(map[string]bool, len(keys))
	err := r.s.run(r.inTx, func(st *state) error {
		want := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			want[k] = struct{}{}
		}
		for _, d := range st.documents {
			if d.BlobsPurgedAt != nil {
				continue
			}
			for _, v := range d.Versions {
				if _, ok := want[v.BlobKey]; ok {
					out[v.BlobKey] = true
				}
			}
		}
		return nil
	})
	return out, err
}
