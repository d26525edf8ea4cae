package api

import (
	"io/fs"
	"net/http"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new HTTP router with all routes configured. staticFS
// holds the chat page under "static/"; it is only served when the UI is enabled.
func NewRouter(cfg *config.Config, handler *Handler, store database.Store, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Audit and rate limiting apply to everything but the health check.
	var guarded []func(http.Handler) http.Handler
	if store != nil {
		guarded = append(guarded, AuditMiddleware(store))
	}
	if cfg.RateLimits.RequestsPerMinute > 0 {
		guarded = append(guarded, RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))
	}

	r.With(guarded...).Post("/api/chat", handler.Chat)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(guarded...)

			r.Post("/chat", handler.Chat)
			r.Post("/verify", handler.Verify)

			r.Get("/queries", handler.ListQueries)
			r.Get("/queries/{id}", handler.GetQuery)

			r.Get("/audit", handler.GetAuditLogs)
		})
	})

	if cfg.Server.EnableUI && staticFS != nil {
		if staticContent, err := fs.Sub(staticFS, "static"); err == nil {
			r.Handle("/*", http.FileServer(http.FS(staticContent)))
		}
	}

	return r
}
