package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/photo-shortcode/internal/clipboard"
	"github.com/kozaktomas/photo-shortcode/internal/config"
	"github.com/kozaktomas/photo-shortcode/internal/menu"
	"github.com/kozaktomas/photo-shortcode/internal/messaging"
	"github.com/kozaktomas/photo-shortcode/internal/notify"
	"github.com/kozaktomas/photo-shortcode/internal/settings"
	"github.com/kozaktomas/photo-shortcode/internal/web/handlers"
	"github.com/kozaktomas/photo-shortcode/internal/web/middleware"
)

// Server represents the companion web server the browser extension talks to
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	store      *settings.Store
	bus        *messaging.Bus
	pages      *handlers.PageManager
}

// NewServer creates a new web server. hostClipboard and hostNotifier mirror
// copies and toasts on this machine; both may be nil.
func NewServer(cfg *config.Config, store *settings.Store, hostClipboard clipboard.Writer, hostNotifier notify.Notifier) *Server {
	r := chi.NewRouter()

	bus := messaging.NewBus()

	s := &Server{
		config: cfg,
		router: r,
		store:  store,
		bus:    bus,
		pages:  handlers.NewPageManager(bus, store, hostClipboard, hostNotifier),
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))

	// Set up routes
	s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No write timeout: page event streams stay open.
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")

	// Detaching pages ends their event streams so Shutdown does not wait on them
	s.pages.CloseAll()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Pages returns the page manager
func (s *Server) Pages() *handlers.PageManager {
	return s.pages
}

// Background returns the router relaying menu clicks to pages
func (s *Server) Background() *menu.Background {
	return menu.NewBackground(s.bus)
}
