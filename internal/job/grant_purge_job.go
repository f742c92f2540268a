package job

import (
	"context"

	"go.uber.org/zap"

	"docvault/internal/logging"
	"docvault/internal/metrics"
	"docvault/internal/service"
)

// GrantPurgeJob deletes expired share grants.
type GrantPurgeJob struct {
	svc     service.MaintenanceService
	metrics *metrics.Lifecycle
}

func NewGrantPurgeJob(svc service.MaintenanceService, m *metrics.Lifecycle) *GrantPurgeJob {
	return &GrantPurgeJob{svc: svc, metrics: m}
}

func (j *GrantPurgeJob) Name() string {
	return "grant_purge"
}

func (j *GrantPurgeJob) Run(ctx context.Context) error {
	n, err := j.svc.PurgeExpiredGrants(ctx)
	record(j.metrics, j.Name(), err)
	if err != nil {
		return err
	}
	if n > 0 {
		logging.FromContext(ctx).Info("expired grants purged", zap.Int64("count", n))
	}
	return nil
}
