package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/observability"
	"github.com/couchcryptid/navaid-service/internal/registry"
	"github.com/couchcryptid/navaid-service/internal/resolve"
	"github.com/couchcryptid/navaid-service/internal/wire"
)

// Resolver answers lookup and projection requests.
type Resolver interface {
	Resolve(kind domain.Kind, token string) (resolve.Result, error)
	Project(kind domain.Kind, code string, radial, distanceNM float64) (resolve.Projection, error)
}

// Snapshotter exposes the active registry generation.
type Snapshotter interface {
	Current() *registry.Registry
}

// Reloader rebuilds the registry on demand.
type Reloader interface {
	Load(ctx context.Context) (registry.Stats, error)
}

// Deps wires the server to the rest of the service. Reloader may be nil, in
// which case POST /admin/reload is not routed.
type Deps struct {
	Resolver Resolver
	Registry Snapshotter
	Reloader Reloader
	Ready    sharedobs.ReadinessChecker
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	RateLimitRPS   float64
	RateLimitBurst int
}

// routeKinds maps the public collection names to the index they search.
var routeKinds = []struct {
	path string
	kind domain.Kind
}{
	{"/airports", domain.KindAirport},
	{"/navaids", domain.KindNavaid},
	{"/waypoints", domain.KindFix},
	{"/points", domain.KindAny},
}

// Server exposes the lookup API plus health, readiness and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the lookup routes, /health, /healthz,
// /readyz, /metrics and /admin/reload.
func NewServer(addr string, deps Deps) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: deps.Logger,
	}

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.logRequests,
		middleware.Recoverer,
		cors,
	)

	r.Get("/health", s.handleHealth)
	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(deps.Ready))
	r.Handle("/metrics", promhttp.Handler())
	if deps.Reloader != nil {
		r.Post("/admin/reload", s.handleReload)
	}

	r.Group(func(r chi.Router) {
		if deps.RateLimitRPS > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(deps.RateLimitRPS), deps.RateLimitBurst), deps.Metrics))
		}
		for _, rk := range routeKinds {
			r.Get(rk.path+"/{id}", s.handleResolve(rk.kind))
			r.Get(rk.path+"/{id}/{radial}/{distance}", s.handleProject(rk.kind))
		}
	})

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, wire.FromStats(s.deps.Registry.Current().Stats()))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Reloader.Load(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, wire.Error{Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, wire.FromStats(stats))
}

func (s *Server) handleResolve(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.deps.Resolver.Resolve(kind, chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, kind, err)
			return
		}
		s.countLookup(kind, "hit")
		writeJSON(w, http.StatusOK, wire.FromResult(res))
	}
}

func (s *Server) handleProject(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		radial, ok := s.parseNumber(w, kind, "radial", chi.URLParam(r, "radial"))
		if !ok {
			return
		}
		distance, ok := s.parseNumber(w, kind, "distance", chi.URLParam(r, "distance"))
		if !ok {
			return
		}

		p, err := s.deps.Resolver.Project(kind, chi.URLParam(r, "id"), radial, distance)
		if err != nil {
			s.writeError(w, kind, err)
			return
		}
		s.countLookup(kind, "hit")
		writeJSON(w, http.StatusOK, wire.FromProjection(p))
	}
}

// parseNumber answers 400 itself when raw is not a number.
func (s *Server) parseNumber(w http.ResponseWriter, kind domain.Kind, field, raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.countLookup(kind, "invalid")
		writeJSON(w, http.StatusBadRequest, wire.Error{Detail: field + " must be a number"})
		return 0, false
	}
	return v, true
}

// writeError maps resolution errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, kind domain.Kind, err error) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		format     *domain.FormatError
	)
	switch {
	case errors.As(err, &notFound):
		s.countLookup(kind, "not_found")
		writeJSON(w, http.StatusNotFound, wire.Error{Detail: err.Error()})
	case errors.As(err, &validation), errors.As(err, &format):
		s.countLookup(kind, "invalid")
		writeJSON(w, http.StatusBadRequest, wire.Error{Detail: err.Error()})
	default:
		s.countLookup(kind, "error")
		s.logger.Error("resolve request failed", "kind", kind.String(), "error", err)
		writeJSON(w, http.StatusInternalServerError, wire.Error{Detail: "internal error"})
	}
}

func (s *Server) countLookup(kind domain.Kind, outcome string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.Lookups.WithLabelValues(kind.String(), outcome).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
