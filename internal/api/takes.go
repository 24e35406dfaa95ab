package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// processTake kicks off asynchronous processing of one take. The caller
// polls the status endpoint for progress.
func (s *Server) processTake(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid take id")
		return
	}

	// Detached from the request context: processing outlives the response.
	go func() {
		if err := s.deps.Orchestrator.Process(context.Background(), id); err != nil {
			s.logger.Error("processing failed", "take_id", id, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"take_id": id,
		"status":  "processing",
	})
}

func (s *Server) takeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid take id")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Orchestrator.Status(id))
}

func (s *Server) clearTakeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid take id")
		return
	}
	s.deps.Orchestrator.Progress().Remove(id)
	w.WriteHeader(http.StatusNoContent)
}
