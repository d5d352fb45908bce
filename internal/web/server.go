// Package web serves the workspace UI as server-rendered HTML and a JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JonMunkholm/chemlab/internal/config"
	"github.com/JonMunkholm/chemlab/internal/core"
	"github.com/JonMunkholm/chemlab/internal/metrics"
	weblog "github.com/JonMunkholm/chemlab/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for one workspace session.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	limiters []*rateLimiter
}

// NewServer creates a Server for service configured by cfg.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(weblog.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to create static file system: " + err.Error())
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.router.Handle("/metrics", metrics.Handler())
	s.router.Get("/healthz", s.handleHealth)

	uploadLimit := s.uploadRateLimit()

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/search", s.handleSearchPage)
	s.router.Get("/analytics", s.handleAnalyticsPage)
	s.router.Get("/settings", s.handleSettingsPage)
	s.router.Post("/settings", s.handleSettingsSubmit)
	s.router.Post("/directories", s.handleCreateDirectoryForm)
	s.router.Post("/directories/{id}/open", s.handleOpenDirectory)
	s.router.Post("/directories/{id}/toggle", s.handleToggleForm)
	s.router.With(uploadLimit).Post("/directories/{id}/files", s.handleUploadForm)

	s.router.Route("/api", func(r chi.Router) {
		if origins := s.cfg.Security.AllowedOrigins; len(origins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: origins,
				AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
				ExposedHeaders: []string{"X-Request-Id"},
				MaxAge:         300,
			}))
		}

		r.Get("/tree", s.handleTreeAPI)
		r.Post("/directories", s.handleCreateDirectoryAPI)
		r.Post("/directories/{id}/toggle", s.handleToggleAPI)
		r.Post("/directories/{id}/select", s.handleSelectAPI)
		r.Get("/directories/{id}/table", s.handleTableAPI)
		r.Get("/directories/{id}/files", s.handleFilesAPI)
		r.Get("/files/{fileID}", s.handleFileAPI)
		r.With(uploadLimit).Post("/directories/{id}/files", s.handleUploadAPI)

		r.Get("/uploads/status", s.handleUploadQueueStatus)
		r.Get("/uploads/{uploadID}", s.handleUploadStatus)
		r.Get("/uploads/{uploadID}/progress", s.handleUploadProgress)
		r.Get("/uploads/{uploadID}/result", s.handleUploadResult)

		r.Get("/search", s.handleSearchAPI)
		r.Get("/analytics", s.handleAnalyticsAPI)
		r.Get("/settings", s.handleSettingsAPI)
		r.Put("/settings", s.handleUpdateSettingsAPI)
	})
}

// uploadRateLimit returns the stricter limiter for upload endpoints, or a
// pass-through when rate limiting is off.
func (s *Server) uploadRateLimit() func(http.Handler) http.Handler {
	if !s.cfg.Rate.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return s.newRateLimiter(s.cfg.Rate.UploadLimit, time.Minute).middleware
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout, // 0 keeps SSE streams open
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dirs, files := s.service.Stats()
	writeJSON(w, map[string]any{
		"status":      "ok",
		"directories": dirs,
		"files":       files,
		"uploads":     s.service.UploadLimiterStatus(),
	})
}

const contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'"

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", contentSecurityPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus encodes v as JSON. Encoding errors are only logged since
// the header is already sent.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
