package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	"docvault/internal/job"
	"docvault/internal/logging"
	"docvault/internal/metrics"
	"docvault/internal/repository"
	"docvault/internal/repository/memory"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/storage"
)

// runtime is the wired object graph shared by the subcommands.
type runtime struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	db       *sql.DB
	store    repository.Store
	blobs    storage.Storage
	registry *prometheus.Registry
	metrics  *metrics.Lifecycle

	documents   service.DocumentService
	shares      service.ShareService
	workspaces  service.WorkspaceService
	folders     service.FolderService
	maintenance service.MaintenanceService
}

type runtimeOptions struct {
	// inMemory swaps PostgreSQL and the configured blob backend for process-local stores.
	inMemory bool
	migrate  bool
}

func newRuntime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Location())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	rt.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if rt.metrics, err = metrics.NewLifecycle(rt.registry); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	if opts.inMemory {
		rt.store = memory.NewStore()
		cfg.Storage.Backend = "memory"
		if cfg.Storage.MemorySecret == "" {
			if cfg.Storage.MemorySecret, err = randomSecret(); err != nil {
				return nil, err
			}
		}
		logger.Warn("running with in-memory stores, data is lost on exit")
	} else {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		rt.db = db
		if opts.migrate {
			if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
				rt.Close()
				return nil, err
			}
		}
		rt.store = postgres.NewStore(db, cfg.Database.TxMaxRetries)
	}

	blobs, err := storage.New(ctx, cfg.Storage, "http://"+cfg.AppHost+"/blobs")
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("init blob storage: %w", err)
	}
	rt.blobs = blobs

	quota := service.NewQuotaLedger(rt.store)
	rt.documents = service.NewDocumentService(service.DocumentConfig{
		DownloadURLTTL:  cfg.Vault.DownloadURLTTL,
		DeleteRetention: cfg.Vault.DeleteRetention,
		MaxUploadBytes:  cfg.Vault.MaxUploadBytes,
	}, service.DocumentDeps{
		Store:   rt.store,
		Blobs:   blobs,
		Quota:   quota,
		Metrics: rt.metrics,
		Logger:  logger,
	})
	rt.shares = service.NewShareService(rt.store, nil)
	rt.workspaces = service.NewWorkspaceService(rt.store, quota, cfg.Vault.DefaultStorageLimit, nil)
	rt.folders = service.NewFolderService(rt.store, nil)
	rt.maintenance = service.NewMaintenanceService(rt.store, blobs, rt.shares, cfg.Vault.DeleteRetention, rt.metrics, logger, nil)

	return rt, nil
}

// jobs pairs every maintenance job with its configured cron spec.
func (rt *runtime) jobs() []scheduledJob {
	s := rt.cfg.Schedule
	return []scheduledJob{
		{job: job.NewGrantPurgeJob(rt.maintenance, rt.metrics), spec: s.GrantPurge},
		{job: job.NewDeletedPurgeJob(rt.maintenance, rt.metrics, s.PurgeBatch), spec: s.DeletedPurge},
		{job: job.NewBlobReclaimJob(rt.maintenance, rt.metrics, s.ReclaimBatch), spec: s.BlobReclaim},
	}
}

type scheduledJob struct {
	job  job.Job
	spec string
}

func (rt *runtime) Close() {
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			rt.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate memory storage secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
