// Package api provides the HTTP API server and handlers for the
// Vecindario application.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"log/slog"

	"github.com/vecindario/vecindario-server/internal/http/response"
	"github.com/vecindario/vecindario-server/internal/store"
	"github.com/vecindario/vecindario-server/internal/store/sqlite"
)

// apiVersion is reported by the health endpoint and the OpenAPI spec.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	directory *store.Store
	registry  *sqlite.Store
	services  *Services
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(directory *store.Store, registry *sqlite.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("Vecindario API", apiVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		directory: directory,
		registry:  registry,
		services:  services,
		router:    router,
		api:       humaAPI,
		logger:    logger,
	}

	s.router.Get("/health", s.handleHealthCheck)

	s.registerAuthRoutes()
	s.registerPersonRoutes()
	s.registerAssociationRoutes()
	s.registerBookingRoutes()
	s.registerRegistryRoutes()
	s.registerMembershipRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealthCheck reports server health and store reachability.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	directoryStatus := "up"
	if err := s.directory.Ping(); err != nil {
		directoryStatus = "down"
	}
	registryStatus := "up"
	if err := s.registry.Ping(r.Context()); err != nil {
		registryStatus = "down"
	}

	status := "healthy"
	if directoryStatus != "up" || registryStatus != "up" {
		status = "degraded"
	}

	response.Success(w, map[string]string{
		"status":    status,
		"version":   apiVersion,
		"directory": directoryStatus,
		"registry":  registryStatus,
	}, s.logger)
}
