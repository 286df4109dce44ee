package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/governance/internal/api/handler"
	mw "github.com/edvin/governance/internal/api/middleware"
	"github.com/edvin/governance/internal/config"
	"github.com/edvin/governance/internal/core"
	"github.com/edvin/governance/internal/mcpserver"
	"github.com/edvin/governance/internal/registry"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	store    registry.Store
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, store registry.Store, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: core.NewServices(store),
		store:    store,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	if len(s.cfg.CORSOrigins) > 0 {
		s.router.Use(mw.CORS(s.cfg.CORSOrigins))
	}
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.APIKey(s.cfg.APIKey))

		governance := handler.NewGovernance(s.services.Governance)

		// Proxy instances
		r.Get("/instances", governance.ListInstances)
		r.Put("/instances/{id}/status", governance.UpdateInstanceStatus)

		// Replica data sources
		r.Get("/replica-data-sources", governance.ListReplicaDataSources)
		r.Put("/replica-data-sources/{schema}/{name}/status", governance.UpdateReplicaDataSourceStatus)

		// Schemas
		r.Get("/schemas", governance.ListSchemas)
	})

	// MCP tools over streamable HTTP
	s.router.Handle("/mcp", mw.APIKey(s.cfg.APIKey)(mcpserver.New(s.services.Governance, s.logger)))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if _, err := s.store.GetChildrenKeys(ctx, registry.ProxyNodesRootPath()); err != nil {
		checks["registry"] = err.Error()
		healthy = false
	} else {
		checks["registry"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
