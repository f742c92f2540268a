package job

import (
	"context"

	"go.uber.org/zap"

	"docvault/internal/logging"
	"docvault/internal/metrics"
	"docvault/internal/service"
)

const defaultPurgeBatch = 50

// DeletedPurgeJob removes blobs of documents whose retention window has passed.
type DeletedPurgeJob struct {
	svc     service.MaintenanceService
	metrics *metrics.Lifecycle
	batch   int
}

func NewDeletedPurgeJob(svc service.MaintenanceService, m *metrics.Lifecycle, batch int) *DeletedPurgeJob {
	if batch <= 0 {
		batch = defaultPurgeBatch
	}
	return &DeletedPurgeJob{svc: svc, metrics: m, batch: batch}
}

func (j *DeletedPurgeJob) Name() string {
	return "deleted_purge"
}

func (j *DeletedPurgeJob) Run(ctx context.Context) error {
	n, err := j.svc.PurgeDeleted(ctx, j.batch)
	record(j.metrics, j.Name(), err)
	if err != nil {
		return err
	}
	if n > 0 {
		logging.FromContext(ctx).Info("deleted documents purged", zap.Int("count", n))
	}
	return nil
}
