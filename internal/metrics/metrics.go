// Package metrics holds the Prometheus collectors for the document lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	ResultOK            = "ok"
	ResultQuotaExceeded = "quota_exceeded"
	ResultError         = "error"
)

// Lifecycle counts document operations and their failure paths.
type Lifecycle struct {
	Uploads       *prometheus.CounterVec
	Versions      *prometheus.CounterVec
	QuotaDenials  *prometheus.CounterVec
	Compensations *prometheus.CounterVec
	BlobPurges    *prometheus.CounterVec
	JobRuns       *prometheus.CounterVec
}

// NewLifecycle creates the collectors and registers them with reg.
func NewLifecycle(reg prometheus.Registerer) (*Lifecycle, error) {
	m := &Lifecycle{
		Uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_uploads_total",
				Help: "Document uploads by outcome.",
			},
			[]string{"result"},
		),
		Versions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_versions_total",
				Help: "Document version uploads by outcome.",
			},
			[]string{"result"},
		),
		QuotaDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_quota_denials_total",
				Help: "Quota admissions denied, by operation.",
			},
			[]string{"operation"},
		),
		Compensations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_blob_compensations_total",
				Help: "Orphan blob cleanups after failed metadata commits, by outcome.",
			},
			[]string{"result"},
		),
		BlobPurges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_blob_purges_total",
				Help: "Blob keys deleted or deferred to the reclaim ledger.",
			},
			[]string{"result"},
		),
		JobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_job_runs_total",
				Help: "Maintenance job runs by job and outcome.",
			},
			[]string{"job", "result"},
		),
	}

	for _, c := range []prometheus.Collector{m.Uploads, m.Versions, m.QuotaDenials, m.Compensations, m.BlobPurges, m.JobRuns} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewUnregistered returns collectors not attached to any registry.
func NewUnregistered() *Lifecycle {
	m, _ := NewLifecycle(prometheus.NewRegistry())
	return m
}
