package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/docshelf/internal/config"
	"github.com/dgallion1/docshelf/internal/pipeline"
	"github.com/dgallion1/docshelf/internal/render"
)

// Server is the HTTP API server for docshelf.
type Server struct {
	router   chi.Router
	library  *pipeline.Library
	renderer *render.Renderer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(lib *pipeline.Library, renderer *render.Renderer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		library:  lib,
		renderer: renderer,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Get("/api/articles", s.handleListArticles)
	r.Get("/api/articles/{id}", s.handleGetArticle)
	r.Get("/api/articles/{id}/toc", s.handleGetOutline)

	r.Get("/api/stats/fetch", s.handleFetchStats)
	r.Get("/api/catalog/report", s.handleReloadReport)

	// Authenticated endpoints. Reload stays off when no key is configured.
	if s.cfg.DocshelfAPIKey != "" {
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.cfg.DocshelfAPIKey, s.log))
			r.Post("/api/reload", s.handleReload)
		})
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
