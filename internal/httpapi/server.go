package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pageaudit/audit"
	"pageaudit/internal/store"
)

// Runner performs one page analysis. It matches audit.Run with the
// options pre-bound, which keeps handlers trivially testable.
type Runner func(ctx context.Context, pageURL string) (*audit.Report, error)

// Server exposes the analysis engine and the report archive over HTTP.
type Server struct {
	router *chi.Mux
	run    Runner
	store  *store.Store
	clock  func() time.Time
}

// NewServer creates the API server. The store may be nil, in which
// case reports are analyzed but not persisted and the archive routes
// answer 404.
func NewServer(run Runner, st *store.Store) *Server {
	s := &Server{
		run:   run,
		store: st,
		clock: time.Now,
	}
	s.setupRouter()

	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
	})

	s.router = r
}
