package job

import (
	"context"

	"go.uber.org/zap"

	"docvault/internal/logging"
	"docvault/internal/metrics"
	"docvault/internal/service"
)

const defaultReclaimBatch = 100

// BlobReclaimJob drains the reclaim ledger. Entries that fail again stay for the next run.
type BlobReclaimJob struct {
	svc     service.MaintenanceService
	metrics *metrics.Lifecycle
	batch   int
}

func NewBlobReclaimJob(svc service.MaintenanceService, m *metrics.Lifecycle, batch int) *BlobReclaimJob {
	if batch <= 0 {
		batch = defaultReclaimBatch
	}
	return &BlobReclaimJob{svc: svc, metrics: m, batch: batch}
}

func (j *BlobReclaimJob) Name() string {
	return "blob_reclaim"
}

func (j *BlobReclaimJob) Run(ctx context.Context) error {
	report, err := j.svc.ReclaimBlobs(ctx, j.batch)
	record(j.metrics, j.Name(), err)
	if err != nil {
		return err
	}
	if report.Deleted+report.Referenced+report.Failed > 0 {
		logging.FromContext(ctx).Info("reclaim ledger processed",
			zap.Int("deleted", report.Deleted),
			zap.Int("referenced", report.Referenced),
			zap.Int("failed", report.Failed),
		)
	}
	return nil
}
