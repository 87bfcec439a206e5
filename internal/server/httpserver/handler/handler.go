package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yndnr/devloop/internal/telemetry/logger"
)

// APIPrefix is the path prefix of the live-reload endpoints.
const APIPrefix = "/api/devloop/"

// LiveState is the read side of the server globals.
type LiveState interface {
	Version() int64
	Status() (string, bool)
}

// Config configures a Handler.
type Config struct {
	State        LiveState
	LiveReload   bool
	BuildVersion string
	Logger       *slog.Logger
}

// Handler serves health and live-reload endpoints.
type Handler struct {
	state        LiveState
	liveReload   bool
	buildVersion string
	logger       *slog.Logger
}

// New creates a Handler.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{
		state:        cfg.State,
		liveReload:   cfg.LiveReload,
		buildVersion: cfg.BuildVersion,
		logger:       cfg.Logger,
	}
}

// Register adds the handler's routes to mux. Live-reload routes are only
// added when enabled, so in prod they answer 404.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)

	if !h.liveReload {
		return
	}
	mux.HandleFunc("GET "+APIPrefix+"version", h.handleVersion)
	mux.HandleFunc("GET "+APIPrefix+"status", h.handleStatus)
	mux.HandleFunc("GET "+APIPrefix+"livereload.js", h.handleScript)
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	response := NewResponse(logger.RequestIDFromContext(r.Context()), data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// writeText writes a text/plain body.
func (h *Handler) writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Debug("failed to write response", "error", err)
	}
}
