// Package http exposes an engine over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the part of *wayfinder.Engine the API needs.
type Engine interface {
	Execute(ctx context.Context, q domain.Query) (*wayfinder.Answer, error)
	Graph() ports.Graph
	Automata() []string
}

var _ Engine = (*wayfinder.Engine)(nil)

// Server serves queries against a swappable engine.
type Server struct {
	mu      sync.RWMutex
	engine  Engine
	events  *Broadcaster
	metrics prometheus.Gatherer
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server for engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		events: NewBroadcaster(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a server for engine and returns its handler.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Handler()
}

// Engine returns the engine currently serving requests.
func (s *Server) Engine() Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Reload swaps the engine and notifies /events subscribers.
// Requests already running finish against the previous engine.
func (s *Server) Reload(engine Engine) {
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
	s.events.Broadcast("reload")
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/graph", s.getGraph)
	r.Get("/automata", s.getAutomata)
	r.Get("/events", s.subscribeEvents)
	r.Post("/pathsystem", s.query(domain.KindPathSystem))
	r.Post("/slice", s.query(domain.KindSlice))
	r.Post("/path", s.query(domain.KindPath))
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusOf maps engine errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoSuchPath):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidAutomaton),
		errors.Is(err, domain.ErrUnknownNode):
		return http.StatusBadRequest
	case domain.IsInterruption(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// query handles POST /pathsystem, /slice and /path. The body is a
// domain.Query; the route decides the mode.
func (s *Server) query(mode domain.ResultKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q domain.Query
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&q); err != nil {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
		q.Mode = mode

		ans, err := s.Engine().Execute(r.Context(), q)
		if err != nil {
			s.fail(w, statusOf(err), err)
			return
		}
		s.writeJSON(w, http.StatusOK, ans)
	}
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, wayfinder.Summarize(s.Engine().Graph()))
}

func (s *Server) getAutomata(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine().Automata())
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "wayfinder-http",
		"version": strings.TrimSpace(wayfinder.Version),
	})
}

// subscribeEvents handles GET /events, a server-sent event stream that
// announces engine reloads.
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.fail(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	ch, cancel := s.events.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
