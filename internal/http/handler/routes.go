package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xdapi/internal/service"
)

const defaultDownloadExpiry = 15 * time.Minute

type routeOptions struct {
	gatherer       prometheus.Gatherer
	downloadExpiry time.Duration
}

// RouteOption configures RegisterRoutes.
type RouteOption func(*routeOptions)

// WithMetrics exposes g at GET /metrics.
func WithMetrics(g prometheus.Gatherer) RouteOption {
	return func(o *routeOptions) { o.gatherer = g }
}

// WithDownloadExpiry sets how long presigned download URLs stay valid.
func WithDownloadExpiry(d time.Duration) RouteOption {
	return func(o *routeOptions) {
		if d > 0 {
			o.downloadExpiry = d
		}
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, opts ...RouteOption) {
	o := routeOptions{downloadExpiry: defaultDownloadExpiry}
	for _, opt := range opts {
		opt(&o)
	}

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if o.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/documents", ListDocuments(docSvc))
	app.Post("/documents", UploadDocument(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
	app.Delete("/documents/:id", DeleteDocument(docSvc))
	app.Get("/documents/:id/artboards", ListArtboards(docSvc))
	app.Get("/documents/:id/resources/:uid", GetResource(docSvc))
	app.Get("/documents/:id/download", DownloadDocument(docSvc, o.downloadExpiry))
}
