package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yndnr/devloop/internal/storage/queue"
	"github.com/yndnr/devloop/internal/storage/statefile"
)

// Config configures the storage engine.
type Config struct {
	// StatePath is the ServerState record.
	StatePath string

	// QueuePath is the request queue file.
	QueuePath string

	// OnMalformed is called for every discarded queue entry.
	OnMalformed func(err error)

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Engine provides the state store and request queue of one project.
type Engine struct {
	State *statefile.Store
	Queue *queue.FileQueue
}

// New builds an engine. No files are touched.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	qopts := []queue.Option{queue.WithLogger(logger.With("component", "queue"))}
	if cfg.OnMalformed != nil {
		qopts = append(qopts, queue.WithMalformedHook(cfg.OnMalformed))
	}

	return &Engine{
		State: statefile.New(cfg.StatePath, statefile.WithLogger(logger.With("component", "statefile"))),
		Queue: queue.New(cfg.QueuePath, qopts...),
	}
}

// Teardown removes the queue and then the state record. Both steps are
// attempted even if the first fails.
func (e *Engine) Teardown(ctx context.Context) error {
	qerr := e.Queue.Clear(ctx)
	serr := e.State.Clear()
	return errors.Join(qerr, serr)
}
