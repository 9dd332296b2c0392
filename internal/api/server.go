package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/chaos-zero-companion/internal/api/handlers"
	"github.com/ramonehamilton/chaos-zero-companion/internal/api/websocket"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config

	// WebSocket hub for real-time events
	wsHub *websocket.Hub

	catalog      handlers.CatalogService
	catalogAdmin handlers.CatalogAdminService
	sessions     handlers.SessionService
	db           handlers.Pinger
	sessionCount func() int

	limiter *ipRateLimiter
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimit      float64 // deck commands per second per client, 0 = unlimited
	RateBurst      int
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		RequestTimeout: 60 * time.Second,
		RateLimit:      20,
		RateBurst:      40,
	}
}

// Dependencies are the services the API serves.
type Dependencies struct {
	Catalog      handlers.CatalogService
	CatalogAdmin handlers.CatalogAdminService // optional, nil leaves the catalog read-only
	Sessions     handlers.SessionService
	DB           handlers.Pinger // optional, used by health checks
	SessionCount func() int      // optional, used by health checks
}

// NewServer creates a new API server.
func NewServer(cfg *Config, deps Dependencies) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router:       chi.NewRouter(),
		config:       cfg,
		wsHub:        websocket.NewHub(),
		catalog:      deps.Catalog,
		catalogAdmin: deps.CatalogAdmin,
		sessions:     deps.Sessions,
		db:           deps.DB,
		sessionCount: deps.SessionCount,
	}
	if cfg.RateLimit > 0 {
		s.limiter = newIPRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(s.jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the WebSocket hub and the HTTP listener in goroutines.
func (s *Server) Start() error {
	if s.httpServer != nil {
		return errors.New("server already started")
	}

	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("API server starting on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server and the WebSocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.config.Port
}

// WebSocketHub returns the WebSocket hub for external integration.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// NewWebSocketObserver creates an observer that forwards dispatched events
// to WebSocket clients.
func (s *Server) NewWebSocketObserver() *websocket.WebSocketObserver {
	return websocket.NewWebSocketObserver(s.wsHub)
}
