package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/config"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/pipeline"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the application service behind the HTTP routes.
type Dashboard interface {
	sharedobs.ReadinessChecker
	ParseSelection(ctx context.Context, regional, indicator string) (domain.Selection, error)
	View(ctx context.Context, sel domain.Selection, format string) (domain.View, error)
	Options(ctx context.Context) (pipeline.Options, error)
	Reload(ctx context.Context) (*domain.Dataset, error)
}

// Server serves the dashboard page, its JSON/GeoJSON/XLSX API, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	mapCfg     render.MapConfig
	logger     *slog.Logger
}

// NewServer creates the HTTP server and mounts all routes.
func NewServer(cfg *config.Config, dash Dashboard, logger *slog.Logger) *Server {
	s := &Server{
		dash: dash,
		mapCfg: render.MapConfig{
			CenterLat: cfg.MapCenterLat,
			CenterLon: cfg.MapCenterLon,
			Zoom:      cfg.MapZoom,
			TileURL:   cfg.MapTileURL,
		},
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(dash))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/schools", s.handleSchools)
		r.Get("/schools.geojson", s.handleGeoJSON)
		r.Get("/schools.xlsx", s.handleXLSX)
		r.Post("/dataset/reload", s.handleReload)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
