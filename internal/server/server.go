// Package server exposes routetrace sessions over an HTTP JSON API.
//
// Each session owns a graph and the last route run over it. Clients create a
// session, edit its graph, request runs and read back the recorded steps,
// matrices and drawings:
//
//	POST   /api/v1/sessions                      create (graph or preset)
//	GET    /api/v1/sessions/{id}                 fetch
//	DELETE /api/v1/sessions/{id}                 delete
//	PUT    /api/v1/sessions/{id}/graph           replace the graph
//	POST   /api/v1/sessions/{id}/nodes           add a node
//	DELETE /api/v1/sessions/{id}/nodes/{node}    remove a node
//	POST   /api/v1/sessions/{id}/edges           add or replace an edge
//	DELETE /api/v1/sessions/{id}/edges/{from}/{to}
//	POST   /api/v1/sessions/{id}/runs            compute a route
//	POST   /api/v1/sessions/{id}/paths/next      select the next shortest path
//	GET    /api/v1/sessions/{id}/steps           recorded trace
//	GET    /api/v1/sessions/{id}/matrix          adjacency or weight matrix
//	GET    /api/v1/sessions/{id}/render          DOT or SVG drawing
//
// Every graph edit drops the stored run. Validation failures answer 422 with
// the full list of problems.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/routetrace/pkg/pipeline"
	"github.com/matzehuels/routetrace/pkg/session"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Config holds the server dependencies.
type Config struct {
	Store  session.Store
	Runner *pipeline.Runner
	Logger *log.Logger

	// TTL is applied to sessions on every write. Zero means session.DefaultTTL.
	TTL time.Duration

	// AllowedOrigins enables CORS for browser clients. Empty disables CORS.
	AllowedOrigins []string
}

// Server serves the API.
type Server struct {
	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
	ttl    time.Duration
	router chi.Router
}

// New creates a server. Store and Runner are required.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = session.DefaultTTL
	}
	s := &Server{
		store:  cfg.Store,
		runner: cfg.Runner,
		logger: cfg.Logger.WithPrefix("http"),
		ttl:    cfg.TTL,
	}
	s.router = s.routes(cfg.AllowedOrigins)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(origins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Put("/graph", s.replaceGraph)
			r.Post("/nodes", s.addNode)
			r.Delete("/nodes/{node}", s.removeNode)
			r.Post("/edges", s.addEdge)
			r.Delete("/edges/{from}/{to}", s.deleteEdge)
			r.Post("/runs", s.run)
			r.Post("/paths/next", s.nextPath)
			r.Get("/steps", s.steps)
			r.Get("/matrix", s.matrix)
			r.Get("/render", s.render)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
