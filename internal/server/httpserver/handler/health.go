package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, set := h.state.Status()
	h.writeJSON(w, r, http.StatusOK, &HealthResponse{
		Status:      "healthy",
		Time:        time.Now().UTC().Format(time.RFC3339),
		Build:       h.buildVersion,
		LiveVersion: h.state.Version(),
		StatusSet:   set,
	})
}
