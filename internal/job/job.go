// Package job holds the maintenance tasks run by the scheduler and the sweep command.
package job

import (
	"context"

	"docvault/internal/metrics"
)

// Job is one named maintenance task.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

func record(m *metrics.Lifecycle, name string, err error) {
	if m == nil {
		return
	}
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	m.JobRuns.WithLabelValues(name, result).Inc()
}
