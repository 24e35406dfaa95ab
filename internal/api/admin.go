package api

import "net/http"

func (s *Server) saveIndex(w http.ResponseWriter, r *http.Request) {
	if s.deps.SnapshotPath == "" {
		writeError(w, http.StatusConflict, "no snapshot path configured")
		return
	}
	if err := s.deps.Index.Persist(s.deps.SnapshotPath); err != nil {
		s.logger.Error("persist index", "error", err)
		writeError(w, http.StatusInternalServerError, "could not persist index")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "count": s.deps.Index.Count()})
}

func (s *Server) clearIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Index.Clear(); err != nil {
		s.logger.Error("clear index", "error", err)
		writeError(w, http.StatusInternalServerError, "could not clear index")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

func (s *Server) indexStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Index.Stats())
}
