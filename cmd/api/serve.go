package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docvault/docs"
	handlers "docvault/internal/http/handler"
	"docvault/internal/http/middleware"
	"docvault/internal/otel"
	"docvault/internal/schedule"
	"docvault/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// swaggerMu guards docs.SwaggerInfo, which the swagger handler rewrites per request.
var swaggerMu sync.Mutex

func newServeCmd() *cobra.Command {
	var (
		inMemory   bool
		noSchedule bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API and the maintenance scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, runtimeOptions{inMemory: inMemory, migrate: true})
			if err != nil {
				return err
			}
			defer rt.Close()
			return serve(ctx, rt, !noSchedule)
		},
	}
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "use in-memory metadata and blob stores")
	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "do not run maintenance jobs in this process")
	return cmd
}

func serve(ctx context.Context, rt *runtime, withScheduler bool) error {
	logger := rt.logger

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	app, err := newApp(rt)
	if err != nil {
		return err
	}

	if withScheduler {
		sched := schedule.NewCronScheduler(logger)
		for _, sj := range rt.jobs() {
			if err := sched.AddJob(sj.job, sj.spec); err != nil {
				return err
			}
		}
		sched.Start(ctx)
		defer sched.Stop()
	}

	addr := ":" + rt.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server stopping")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func newApp(rt *runtime) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit(rt.cfg.Vault.MaxUploadBytes),
	})

	prom, err := middleware.NewPrometheusMiddleware(rt.registry)
	if err != nil {
		return nil, err
	}

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(rt.logger))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		swaggerMu.Lock()
		defer swaggerMu.Unlock()
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	deps := handlers.Deps{
		Documents:  rt.documents,
		Shares:     rt.shares,
		Workspaces: rt.workspaces,
		Folders:    rt.folders,
	}
	if rt.db != nil {
		deps.DB = rt.db
	}
	if mem, ok := storage.MemoryOf(rt.blobs); ok {
		deps.MemoryBlobs = mem
	}
	handlers.RegisterRoutes(app, deps)

	return app, nil
}

// bodyLimit leaves room for multipart framing around the largest accepted file.
func bodyLimit(maxUpload int64) int {
	const overhead = 1 << 20
	if maxUpload <= 0 {
		return fiber.DefaultBodyLimit
	}
	return int(maxUpload) + overhead
}
