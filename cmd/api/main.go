package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"xdapi/docs"
	"xdapi/internal/config"
	"xdapi/internal/database"
	"xdapi/internal/database/migration"
	handlers "xdapi/internal/http/handler"
	"xdapi/internal/http/middleware"
	"xdapi/internal/logging"
	"xdapi/internal/metrics"
	xdotel "xdapi/internal/otel"
	"xdapi/internal/repository/postgres"
	"xdapi/internal/service"
	"xdapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title XD Container API
// @version 1.0
// @description Stores Adobe XD containers and serves their artboard trees and embedded resources.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.TimeZone)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := xdotel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	loaderMetrics, err := metrics.NewLoader(reg)
	if err != nil {
		return err
	}
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	maxBytes := cfg.MaxUploadBytes()
	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo,
		service.WithLogger(log),
		service.WithMetrics(loaderMetrics),
		service.WithMaxBytes(maxBytes),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             int(maxBytes) + 1<<20,
		DisableStartupMessage: true,
	})

	// Order: request id first so every later layer sees it; logger inside
	// prometheus so both observe the status set by the error handler.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMW.Handler())
	app.Use(middleware.Logger(log))

	handlers.RegisterRoutes(app, db, docSvc,
		handlers.WithMetrics(reg),
		handlers.WithDownloadExpiry(cfg.DownloadURLExpiry()),
	)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("server listening", zap.String("addr", addr), zap.String("app_host", cfg.AppHost))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
