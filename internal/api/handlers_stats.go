package api

import (
	"net/http"
)

func (s *Server) handleFetchStats(w http.ResponseWriter, r *http.Request) {
	stats := s.library.Stats()
	if stats == nil {
		jsonError(w, "fetch stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"store": s.storeName(),
		"stats": stats.Snapshot(),
	})
}

func (s *Server) handleReloadReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.library.Report()
	if !ok {
		jsonError(w, "no reload has run yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) storeName() string {
	if s.cfg.Remote() {
		return s.cfg.ContentURL
	}
	return s.cfg.ContentDir
}
