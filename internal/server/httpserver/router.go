package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/devloop/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// State is read by the live-reload and health endpoints.
	State handler.LiveState

	// LiveReload registers /api/devloop/*. Off in prod.
	LiveReload bool

	// SiteRoot is served at / when set.
	SiteRoot string

	// BuildVersion is reported by /health.
	BuildVersion string

	// Metrics serves /metrics and records per-route counters. Optional.
	Metrics interface {
		HTTPRecorder
		Handler() http.Handler
	}

	Logger *slog.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// GlobalRateLimit is the per-IP limit in requests/second; 0 disables it.
	GlobalRateLimit int
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Order: Recover -> RequestID -> AccessLog -> Instrument -> CORS ->
// RateLimit -> NoCache -> mux.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(handler.Config{
		State:        cfg.State,
		LiveReload:   cfg.LiveReload,
		BuildVersion: cfg.BuildVersion,
		Logger:       log,
	})

	mux := http.NewServeMux()
	h.Register(mux)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
	if cfg.SiteRoot != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.SiteRoot)))
	}

	middlewares := []Middleware{
		Recover(log),
		RequestID(),
		AccessLog(log),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Instrument(cfg.Metrics))
	}
	middlewares = append(middlewares, CORS(cfg.CORSAllowedOrigins))
	if cfg.GlobalRateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.GlobalRateLimit))
	}
	middlewares = append(middlewares, NoCache(handler.APIPrefix))

	return Chain(mux, middlewares...)
}
