// Package httpapi exposes quiz sessions, the question bank and learning
// progress over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/session"
)

// Server routes API requests to the bank, the tracker and the live sessions.
type Server struct {
	bank     *questionbank.Bank
	tracker  *progress.Tracker
	recorder session.Recorder
	logger   *zap.Logger

	sessions   *registry
	sessionTTL time.Duration
	now        func() time.Time
	checks     []healthCheck
	metrics    *metrics
	router     chi.Router
}

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 2 * time.Hour

type healthCheck struct {
	name  string
	check func(context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder attaches an audit recorder to every session the server starts.
func WithRecorder(r session.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithSessionTTL sets how long a session may go untouched before it is
// evicted. Zero or less keeps sessions until they are deleted.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) { s.sessionTTL = d }
}

// WithHealthCheck adds a dependency check reported by /healthz.
func WithHealthCheck(name string, check func(context.Context) error) Option {
	return func(s *Server) {
		if check != nil {
			s.checks = append(s.checks, healthCheck{name: name, check: check})
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer builds the router. A nil bank serves no questions.
func NewServer(bank *questionbank.Bank, tracker *progress.Tracker, opts ...Option) *Server {
	if bank == nil {
		bank = questionbank.Empty()
	}
	s := &Server{
		bank:     bank,
		tracker:  tracker,
		logger:   zap.NewNop(),
		sessions:   newRegistry(),
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		metrics:    newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/questions", s.listQuestions)

		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/answers", s.submitAnswer)
			r.Post("/finish", s.finishSession)
			r.Post("/repeat", s.repeatSession)
			r.Post("/reshuffle", s.reshuffleSession)
		})

		r.Get("/progress/{user}", s.getProgress)
		r.Delete("/progress/{user}", s.resetProgress)
	})
	return r
}

// evictIdle drops sessions untouched for longer than the TTL.
func (s *Server) evictIdle() {
	if s.sessionTTL <= 0 {
		return
	}
	for _, h := range s.sessions.evictBefore(s.now().Add(-s.sessionTTL)) {
		if h.active.Load() {
			s.metrics.activeSessions.Dec()
		}
		s.logger.Debug("evicted idle session", zap.String("handle_id", h.id))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
