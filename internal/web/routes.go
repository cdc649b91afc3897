package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/photo-shortcode/internal/web/handlers"
	"github.com/kozaktomas/photo-shortcode/internal/web/middleware"
)

// requestTimeout bounds every non-streaming request
const requestTimeout = 30 * time.Second

func (s *Server) setupRoutes() {
	// Create handlers
	menuHandler := handlers.NewMenuHandler(s.Background())
	pagesHandler := handlers.NewPagesHandler(s.pages)
	settingsHandler := handlers.NewSettingsHandler(s.store)
	shortcodeHandler := handlers.NewShortcodeHandler(s.store)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireToken(s.config.Web.Token))

		// Page event streams are long-lived and must not be cut by the timeout
		r.Get("/pages/{tabId}/events", pagesHandler.Events)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(requestTimeout))

			// Context menu
			r.Get("/menu", menuHandler.List)
			r.Post("/menu/click", menuHandler.Click)

			// Page contexts
			r.Put("/pages/{tabId}", pagesHandler.Attach)
			r.Delete("/pages/{tabId}", pagesHandler.Detach)

			// Options page
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)

			// Generator
			r.Post("/shortcode", shortcodeHandler.Generate)
		})
	})
}
