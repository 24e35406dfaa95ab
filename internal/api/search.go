package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Prajwal-Personal/cineai/internal/search"
	"github.com/Prajwal-Personal/cineai/internal/store"
)

type searchRequest struct {
	Query   string         `json:"query"`
	TopK    int            `json:"top_k"`
	Filters search.Filters `json:"filters"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Results []search.Result `json:"results"`
}

func (s *Server) searchIntent(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results := s.deps.Searcher.SearchByIntent(r.Context(), req.Query, req.TopK, req.Filters)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   req.Query,
		Count:   len(results),
		Results: results,
	})
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": s.deps.Searcher.Suggestions(q),
	})
}

func (s *Server) explain(w http.ResponseWriter, r *http.Request) {
	resultID, err := strconv.Atoi(chi.URLParam(r, "result_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid result id")
		return
	}

	explanation, err := s.deps.Searcher.Explain(resultID)
	if errors.Is(err, search.ErrResultNotFound) {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, explanation)
}

type feedbackRequest struct {
	TakeID  uuid.UUID `json:"take_id"`
	Query   string    `json:"query"`
	Helpful bool      `json:"helpful"`
	Note    string    `json:"note"`
}

func (s *Server) feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	id, err := s.deps.Feedback.InsertSearchFeedback(r.Context(), store.Feedback{
		TakeID:  req.TakeID,
		Query:   req.Query,
		Helpful: req.Helpful,
		Note:    req.Note,
	})
	if err != nil {
		s.logger.Error("store feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store feedback")
		return
	}
	s.logger.Info("search feedback recorded", "feedback_id", id, "helpful", req.Helpful)
	writeJSON(w, http.StatusCreated, map[string]any{"feedback_id": id, "status": "received"})
}
