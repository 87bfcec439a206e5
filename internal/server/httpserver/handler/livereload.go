package handler

import (
	_ "embed"
	"net/http"
	"strconv"
)

//go:embed livereload.js
var liveReloadScript []byte

// handleVersion handles GET /api/devloop/version.
func (h *Handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeText(w, strconv.FormatInt(h.state.Version(), 10))
}

// handleStatus handles GET /api/devloop/status. An absent status is an
// empty body.
func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	msg, _ := h.state.Status()
	h.writeText(w, msg)
}

// handleScript serves the browser polling script.
func (h *Handler) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(liveReloadScript); err != nil {
		h.logger.Debug("failed to write script", "error", err)
	}
}
