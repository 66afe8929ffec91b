package api

import (
	"net/http"

	"github.com/dgallion1/docshelf/internal/pipeline"
)

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap := s.library.Reload(r.Context(), "api")

	code := http.StatusOK
	switch snap.Status {
	case pipeline.StatusKept, pipeline.StatusFallback:
		code = http.StatusBadGateway
	case pipeline.StatusCanceled:
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, snap)
}
