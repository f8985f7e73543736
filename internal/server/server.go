// Package server exposes the normalization service over HTTP for on-device
// companion processes.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/healthbridge/internal/bridge"
	"github.com/meltforce/healthbridge/internal/models"
)

// Bridge is the service surface the handlers consume.
type Bridge interface {
	Platform() models.Platform
	Available(ctx context.Context) bool
	RequestPermissions(ctx context.Context, perms []bridge.PermissionRequest) (bool, error)
	PermissionStatus(ctx context.Context, t models.DataType, access models.AccessType) (models.PermissionStatus, error)
	ReadData(ctx context.Context, q bridge.Query) ([]models.Record, error)
	WriteData(ctx context.Context, req models.WriteRequest) error
	OpenPlatformSettings(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	bridge Bridge
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(b Bridge, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		bridge: b,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying mux so main can mount extra handlers on it.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read-only endpoints
	s.router.Get("/api/v1/availability", s.handleAvailability)
	s.router.Get("/api/v1/permissions/status", s.handlePermissionStatus)
	s.router.Get("/api/v1/data", s.handleReadData)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/data", s.handleWriteData)
		r.Post("/api/v1/permissions/request", s.handleRequestPermissions)
		r.Post("/api/v1/settings/open", s.handleOpenSettings)
	})
}
