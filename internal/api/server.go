// Package api exposes the processing and retrieval operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Prajwal-Personal/cineai/internal/index"
	"github.com/Prajwal-Personal/cineai/internal/pipeline"
	"github.com/Prajwal-Personal/cineai/internal/search"
	"github.com/Prajwal-Personal/cineai/internal/store"
)

// FeedbackStore persists search relevance feedback.
type FeedbackStore interface {
	InsertSearchFeedback(ctx context.Context, fb store.Feedback) (uuid.UUID, error)
}

type Deps struct {
	Orchestrator *pipeline.Orchestrator
	Searcher     *search.Searcher
	Index        *index.Index
	Feedback     FeedbackStore
	SnapshotPath string
	Logger       *slog.Logger
}

type Server struct {
	router *chi.Mux
	http   *http.Server
	port   int
	deps   Deps
	logger *slog.Logger
}

func NewServer(port int, deps Deps) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		deps:   deps,
		logger: deps.Logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/takes/{id}/process", s.processTake)
		r.Get("/takes/{id}/status", s.takeStatus)
		r.Delete("/takes/{id}/status", s.clearTakeStatus)

		r.Post("/search/intent", s.searchIntent)
		r.Get("/search/suggestions", s.suggestions)
		r.Get("/search/explain/{result_id}", s.explain)
		r.Post("/search/feedback", s.feedback)

		r.Post("/index/save", s.saveIndex)
		r.Post("/index/clear", s.clearIndex)
		r.Get("/index/stats", s.indexStats)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{Addr: addr, Handler: s.router}
	s.logger.Info("api server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
