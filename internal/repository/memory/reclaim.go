package memory

import (
	"context"
	"sort"
	"time"

	"docvault/internal/model"
)

type reclaimRepo struct {
	s    *Store
	inTx bool
}

func (r *reclaimRepo) Record(ctx context.Context, keys []string, reason string, at time.Time) error {
	return r.s.run(r.inTx, func(st *state) error {
		for _, k := range keys {
			if _, ok := st.reclaims[k]; ok {
				continue
			}
			st.reclaims[k] = &model.BlobReclaim{BlobKey: k, Reason: reason, CreatedAt: at}
		}
		return nil
	})
}

func (r *reclaimRepo) ListPending(ctx context.Context, limit int) ([]model.BlobReclaim, error) {
	out := make([]model.BlobReclaim, 0)
	err := r.s.run(r.inTx, func(st *state) error {
		for _, e := range st.reclaims {
			c := *e
			c.LastTriedAt = copyTime(e.LastTriedAt)
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastTriedAt, out[j].LastTriedAt
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *reclaimRepo) Resolve(ctx context.Context, keys []string) error {
	return r.s.run(r.inTx, func(st *state) error {
		for _, k := range keys {
			delete(st.reclaims, k)
		}
		return nil
	})
}

func (r *reclaimRepo) MarkAttempt(ctx context.Context, key string, lastErr string, at time.Time) error {
	return r.s.run(r.inTx, func(st *state) error {
		if e, ok := st.reclaims[key]; ok {
			e.Attempts++
			e.LastError = lastErr
			e.LastTriedAt = &at
		}
		return nil
	})
}
