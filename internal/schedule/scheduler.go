// Package schedule runs maintenance jobs on cron specs.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"docvault/internal/job"
	"docvault/internal/logging"
)

type Scheduler interface {
	AddJob(j job.Job, spec string) error
	Start(ctx context.Context)
	Stop()
}

type CronScheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	logger  *zap.Logger
	ctx     context.Context
}

func NewCronScheduler(logger *zap.Logger) *CronScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		logger:  logger,
	}
}

// AddJob registers j under spec. An empty spec leaves the job disabled.
func (c *CronScheduler) AddJob(j job.Job, spec string) error {
	logger := c.logger.With(zap.String("job", j.Name()), zap.String("spec", spec))
	if spec == "" {
		logger.Info("job disabled")
		return nil
	}
	if _, ok := c.entries[j.Name()]; ok {
		return fmt.Errorf("job %s already scheduled", j.Name())
	}
	entryID, err := c.cron.AddFunc(spec, c.wrap(j, spec))
	if err != nil {
		logger.Error("schedule job failed", zap.Error(err))
		return fmt.Errorf("schedule %s: %w", j.Name(), err)
	}
	c.entries[j.Name()] = entryID
	logger.Info("job scheduled")
	return nil
}

func (c *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.cron.Start()
}

// Stop waits for running jobs to return.
func (c *CronScheduler) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

// wrap skips a tick while the previous run of the same job is still going.
func (c *CronScheduler) wrap(j job.Job, spec string) func() {
	var running atomic.Bool
	return func() {
		logger := c.logger.With(zap.String("job", j.Name()), zap.String("spec", spec))
		if !running.CompareAndSwap(false, true) {
			logger.Info("job skipped: still running")
			return
		}
		defer running.Store(false)

		ctx := c.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		runJob(logging.WithContext(ctx, logger), logger, j)
	}
}

// RunOnce runs every job in order and joins their errors.
func RunOnce(ctx context.Context, logger *zap.Logger, jobs ...job.Job) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var errs []error
	for _, j := range jobs {
		l := logger.With(zap.String("job", j.Name()))
		if err := runJob(logging.WithContext(ctx, l), l, j); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func runJob(ctx context.Context, logger *zap.Logger, j job.Job) error {
	start := time.Now()
	logger.Info("job started")
	err := j.Run(ctx)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("job finished", zap.Error(err), zap.Duration("duration", elapsed))
		return err
	}
	logger.Info("job finished", zap.Duration("duration", elapsed))
	return nil
}
