// Package api provides the HTTP interface for the form generation
// service.
//
// Architecture:
//
//	┌─────────────────────────────────────────────┐
//	│                 HTTP Server                 │
//	│  chain: recovery → logging → mux            │
//	├─────────────────────────────────────────────┤
//	│  POST /api/generate        (bearer token)   │
//	│  GET  /api/search          (bearer token)   │
//	│  GET  /api/forms/{id}      (public)         │
//	│  POST /api/forms/{id}/submissions (public)  │
//	│  GET  /health, /ready      (public)         │
//	└─────────────────────────────────────────────┘
//
// Authenticated routes resolve the request's owner identity from a
// keyed-MAC bearer token; public routes serve published forms to end
// users without credentials.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/formgen/pipeline"
	"github.com/poiesic/formgen/retrieval"
	"github.com/poiesic/formgen/storage"
	"github.com/poiesic/formgen/storage/badger"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:3400"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout limits how long the server waits for request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout limits how long the server waits for the full request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout limits how long a handler may take to write a response.
	// Generation requests wait on an upstream model, so this is generous.
	WriteTimeout = 60 * time.Second

	// IdleTimeout limits how long idle keep-alive connections are held.
	IdleTimeout = 120 * time.Second
)

// Server is the HTTP server for the form generation service.
type Server struct {
	mux      *http.ServeMux
	generate *GenerateHandler
	search   *SearchHandler
	forms    *FormsHandler
	health   *HealthHandler
	logger   *slog.Logger
}

// NewServer creates a Server and registers all routes.
func NewServer(
	p *pipeline.Pipeline,
	searcher *retrieval.Searcher,
	forms storage.FormRepository,
	submissions storage.SubmissionRepository,
	backend *badger.Backend,
	auth *Authenticator,
) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		generate: NewGenerateHandler(p),
		search:   NewSearchHandler(searcher),
		forms:    NewFormsHandler(forms, submissions),
		health:   NewHealthHandler(backend),
		logger:   slog.Default().With("component", "api-server"),
	}

	authRequired := requireAuth(auth)
	s.generate.RegisterRoutes(s.mux, authRequired)
	s.search.RegisterRoutes(s.mux, authRequired)
	s.forms.RegisterRoutes(s.mux)
	s.health.RegisterRoutes(s.mux)

	return s
}

// Handler returns the fully assembled HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware, loggingMiddleware)
}

// Run starts the HTTP server and blocks until the context is cancelled
// or the server fails. On cancellation it attempts a graceful shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
