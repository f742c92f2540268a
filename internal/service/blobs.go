package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docvault/internal/metrics"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// blobJanitor removes blobs that no committed metadata references. Whatever it
// cannot delete is written to the reclaim ledger for the blob_reclaim job.
type blobJanitor struct {
	blobs   storage.Storage
	store   repository.Store
	metrics *metrics.Lifecycle
	logger  *zap.Logger
	now     func() time.Time
}

// compensate deletes a blob written for a metadata transaction that reported an
// error. A failed commit acknowledgement can hide a commit that did land, so the
// key is looked up first and kept when live metadata references it; when that
// lookup fails the key goes to the ledger, where blob_reclaim repeats the check.
// It runs detached from ctx so a cancelled request still cleans up.
func (j *blobJanitor) compensate(ctx context.Context, key string) {
	ctx = context.WithoutCancel(ctx)

	refs, err := j.store.Repos().Documents.ReferencedKeys(ctx, []string{key})
	if err != nil {
		j.metrics.Compensations.WithLabelValues("deferred").Inc()
		j.logger.Error("orphan blob lookup failed, deferring to reclaim",
			zap.String("blob_key", key),
			zap.Error(err),
		)
		j.record(ctx, key)
		return
	}
	if refs[key] {
		j.metrics.Compensations.WithLabelValues("kept").Inc()
		j.logger.Warn("transaction error after commit, blob kept",
			zap.String("blob_key", key),
		)
		return
	}

	if err := j.blobs.Delete(ctx, key); err != nil {
		j.metrics.Compensations.WithLabelValues("deferred").Inc()
		j.logger.Error("orphan blob compensation failed",
			zap.String("blob_key", key),
			zap.Error(err),
		)
		j.record(ctx, key)
		return
	}
	j.metrics.Compensations.WithLabelValues("deleted").Inc()
}

func (j *blobJanitor) record(ctx context.Context, key string) {
	if err := j.store.Repos().Reclaims.Record(ctx, []string{key}, model.ReclaimReasonCompensation, j.now().UTC()); err != nil {
		j.logger.Error("record orphan blob for reclaim failed",
			zap.String("blob_key", key),
			zap.Error(err),
		)
	}
}

// purge deletes keys whose metadata has already released them and returns how
// many were removed. Failures are deferred to the ledger, never returned.
func (j *blobJanitor) purge(ctx context.Context, keys []string) int {
	if len(keys) == 0 {
		return 0
	}
	ctx = context.WithoutCancel(ctx)
	failed, err := j.blobs.DeleteMany(ctx, keys)
	if err == nil {
		j.metrics.BlobPurges.WithLabelValues("deleted").Add(float64(len(keys)))
		return len(keys)
	}
	if len(failed) == 0 {
		failed = keys
	}

	j.metrics.BlobPurges.WithLabelValues("deleted").Add(float64(len(keys) - len(failed)))
	j.metrics.BlobPurges.WithLabelValues("deferred").Add(float64(len(failed)))
	j.logger.Error("blob purge incomplete, deferring to reclaim",
		zap.Strings("blob_keys", failed),
		zap.Error(err),
	)
	if recErr := j.store.Repos().Reclaims.Record(ctx, failed, model.ReclaimReasonPurge, j.now().UTC()); recErr != nil {
		j.logger.Error("record blobs for reclaim failed",
			zap.Strings("blob_keys", failed),
			zap.Error(recErr),
		)
	}
	return len(keys) - len(failed)
}
