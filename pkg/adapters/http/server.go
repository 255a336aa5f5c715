package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/frost/internal/logging"
	"github.com/aretw0/frost/pkg/domain"
	persistence "github.com/aretw0/frost/pkg/persistence/middleware"
	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/session"
)

// Engine defines the payload operations exposed by the admin API.
type Engine interface {
	Inspect(ctx context.Context, storage ports.Storage) (*domain.Payload, error)
	Flush(ctx context.Context, storage ports.Storage) error
	HasPending(ctx context.Context, storage ports.Storage) (bool, error)
}

// Sessions runs a function against a session-scoped storage under its lock.
type Sessions interface {
	Do(ctx context.Context, sessionID string, fn func(context.Context, ports.Storage) error) error
}

// Server serves the admin API.
type Server struct {
	Engine   Engine
	Sessions Sessions

	view     persistence.Middleware
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithView wraps session storage for read endpoints, e.g. with redaction.
func WithView(mw persistence.Middleware) Option {
	return func(s *Server) {
		s.view = mw
	}
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// PendingResponse is the body of GET /sessions/{id}/pending.
type PendingResponse struct {
	Session string `json:"session"`
	Pending bool   `json:"pending"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates a new HTTP handler for the admin API.
func NewHandler(engine Engine, sessions Sessions, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Sessions: sessions,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/payload", server.GetPayload)
		r.Delete("/payload", server.DeletePayload)
		r.Get("/pending", server.GetPending)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetPayload handles GET /sessions/{id}/payload.
func (s *Server) GetPayload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload *domain.Payload
	err := s.Sessions.Do(r.Context(), id, func(ctx context.Context, storage ports.Storage) error {
		if s.view != nil {
			storage = s.view(storage)
		}
		var err error
		payload, err = s.Engine.Inspect(ctx, storage)
		return err
	})
	if err != nil {
		s.fail(w, "GetPayload", id, err)
		return
	}
	if payload == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no pending payload"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// DeletePayload handles DELETE /sessions/{id}/payload.
func (s *Server) DeletePayload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.Sessions.Do(r.Context(), id, func(ctx context.Context, storage ports.Storage) error {
		return s.Engine.Flush(ctx, storage)
	})
	if err != nil {
		s.fail(w, "DeletePayload", id, err)
		return
	}
	s.logger.Info("Payload flushed", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// GetPending handles GET /sessions/{id}/pending.
func (s *Server) GetPending(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var pending bool
	err := s.Sessions.Do(r.Context(), id, func(ctx context.Context, storage ports.Storage) error {
		var err error
		pending, err = s.Engine.HasPending(ctx, storage)
		return err
	})
	if err != nil {
		s.fail(w, "GetPending", id, err)
		return
	}
	writeJSON(w, http.StatusOK, PendingResponse{Session: id, Pending: pending})
}

func (s *Server) fail(w http.ResponseWriter, op, id string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrInvalidID), errors.Is(err, session.ErrIDTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCorruptPayload):
		status = http.StatusUnprocessableEntity
	}
	s.logger.Error(op+" failed", "session_id", id, "err", err)
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
