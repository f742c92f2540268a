package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docvault/internal/metrics"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// ReclaimReport summarizes one pass over the reclaim ledger.
type ReclaimReport struct {
	Deleted int
	// Referenced entries pointed at keys that live metadata still uses; they are
	// dropped from the ledger without touching the blob.
	Referenced int
	Failed     int
}

// MaintenanceService holds the background reconciliation tasks.
type MaintenanceService interface {
	PurgeExpiredGrants(ctx context.Context) (int64, error)

	// PurgeDeleted deletes blobs of documents soft-deleted longer than the retention window.
	PurgeDeleted(ctx context.Context, limit int) (int, error)

	// ReclaimBlobs retries deletion of keys recorded in the reclaim ledger.
	ReclaimBlobs(ctx context.Context, limit int) (ReclaimReport, error)
}

type maintenanceService struct {
	store     repository.Store
	blobs     storage.Storage
	shares    ShareService
	retention time.Duration
	janitor   *blobJanitor
	logger    *zap.Logger
	now       func() time.Time
}

func NewMaintenanceService(store repository.Store, blobs storage.Storage, shares ShareService, retention time.Duration,
	m *metrics.Lifecycle, logger *zap.Logger, now func() time.Time) MaintenanceService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &maintenanceService{
		store:     store,
		blobs:     blobs,
		shares:    shares,
		retention: retention,
		janitor:   &blobJanitor{blobs: blobs, store: store, metrics: m, logger: logger, now: now},
		logger:    logger,
		now:       now,
	}
}

func (s *maintenanceService) PurgeExpiredGrants(ctx context.Context) (int64, error) {
	return s.shares.PurgeExpired(ctx)
}

func (s *maintenanceService) PurgeDeleted(ctx context.Context, limit int) (int, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	ids, err := s.store.Repos().Documents.ListPurgeCandidates(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, id := range ids {
		var keys []string
		err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			doc, err := repos.Documents.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			// Restored or already purged since the candidate scan.
			if !doc.Restorable() {
				return nil
			}
			if err := repos.Documents.MarkBlobsPurged(ctx, id, s.now().UTC()); err != nil {
				return err
			}
			keys = doc.BlobKeys()
			return nil
		})
		if err != nil {
			s.logger.Error("mark document purged failed", zap.String("document_id", id), zap.Error(err))
			continue
		}
		if len(keys) == 0 {
			continue
		}
		s.janitor.purge(ctx, keys)
		purged++
	}
	return purged, nil
}

func (s *maintenanceService) ReclaimBlobs(ctx context.Context, limit int) (ReclaimReport, error) {
	var report ReclaimReport
	repos := s.store.Repos()

	pending, err := repos.Reclaims.ListPending(ctx, limit)
	if err != nil || len(pending) == 0 {
		return report, err
	}
	keys := make([]string, len(pending))
	for i, e := range pending {
		keys[i] = e.BlobKey
	}

	refs, err := repos.Documents.ReferencedKeys(ctx, keys)
	if err != nil {
		return report, err
	}
	var referenced, orphans []string
	for _, k := range keys {
		if refs[k] {
			referenced = append(referenced, k)
		} else {
			orphans = append(orphans, k)
		}
	}
	if len(referenced) > 0 {
		if err := repos.Reclaims.Resolve(ctx, referenced); err != nil {
			return report, err
		}
		report.Referenced = len(referenced)
	}
	if len(orphans) == 0 {
		return report, nil
	}

	failed, delErr := s.blobs.DeleteMany(ctx, orphans)
	if delErr != nil && len(failed) == 0 {
		failed = orphans
	}
	failedSet := make(map[string]struct{}, len(failed))
	for _, k := range failed {
		failedSet[k] = struct{}{}
	}
	var deleted []string
	for _, k := range orphans {
		if _, ok := failedSet[k]; !ok {
			deleted = append(deleted, k)
		}
	}

	if err := repos.Reclaims.Resolve(ctx, deleted); err != nil {
		return report, err
	}
	report.Deleted = len(deleted)

	now := s.now().UTC()
	for _, k := range failed {
		if err := repos.Reclaims.MarkAttempt(ctx, k, delErr.Error(), now); err != nil {
			s.logger.Error("record reclaim attempt failed", zap.String("blob_key", k), zap.Error(err))
		}
	}
	report.Failed = len(failed)
	if report.Failed > 0 {
		s.logger.Warn("blob reclaim incomplete", zap.Int("failed", report.Failed), zap.Error(delErr))
	}
	return report, nil
}
