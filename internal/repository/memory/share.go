package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
)

type shareRepo struct {
	s    *Store
	inTx bool
}

func (r *shareRepo) Upsert(ctx context.Context, g *model.SharedAccess) error {
	return r.s.run(r.inTx, func(st *state) error {
		if _, ok := st.documents[g.DocumentID]; !ok {
			return fmt.Errorf("upsert share: document %s: %w", g.DocumentID, appErr.ErrNotFound)
		}
		key := shareKey{g.DocumentID, g.GranteeID}
		if cur, ok := st.shares[key]; ok {
			cur.Permission = g.Permission
			cur.ExpiresAt = copyTime(g.ExpiresAt)
			cur.CreatedBy = g.CreatedBy
			return nil
		}
		st.shares[key] = copyShare(g)
		return nil
	})
}

func (r *shareRepo) FindActive(ctx context.Context, documentID, granteeID string, now time.Time) (*model.SharedAccess, error) {
	var out *model.SharedAccess
	err := r.s.run(r.inTx, func(st *state) error {
		g, ok := st.shares[shareKey{documentID, granteeID}]
		if !ok || g.IsExpired(now) {
			return fmt.Errorf("find share: %w", appErr.ErrNotFound)
		}
		out = copyShare(g)
		return nil
	})
	return out, err
}

func (r *shareRepo) ListActiveByDocument(ctx context.Context, documentID string, now time.Time) ([]model.SharedAccess, error) {
	out := make([]model.SharedAccess, 0)
	err := r.s.run(r.inTx, func(st *state) error {
		for _, g := range st.shares {
			if g.DocumentID == documentID && !g.IsExpired(now) {
				out = append(out, *copyShare(g))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].GranteeID < out[j].GranteeID })
	return out, err
}

func (r *shareRepo) ListActiveByGrantee(ctx context.Context, granteeID string, now time.Time) ([]model.SharedAccess, error) {
	out := make([]model.SharedAccess, 0)
	err := r.s.run(r.inTx, func(st *state) error {
		for _, g := range st.shares {
			if g.GranteeID != granteeID || g.IsExpired(now) {
				continue
			}
			if d, ok := st.documents[g.DocumentID]; !ok || d.IsDeleted {
				continue
			}
			out = append(out, *copyShare(g))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *shareRepo) Delete(ctx context.Context, documentID, granteeID string) error {
	return r.s.run(r.inTx, func(st *state) error {
		key := shareKey{documentID, granteeID}
		if _, ok := st.shares[key]; !ok {
			return fmt.Errorf("delete share: %w", appErr.ErrNotFound)
		}
		delete(st.shares, key)
		return nil
	})
}

func (r *shareRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.s.run(r.inTx, func(st *state) error {
		for k, g := range st.shares {
			if g.ExpiresAt != nil && g.ExpiresAt.Before(now) {
				delete(st.shares, k)
				n++
			}
		}
		return nil
	})
	return n, err
}
