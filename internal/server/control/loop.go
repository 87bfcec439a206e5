package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yndnr/devloop/internal/core/domain"
	"github.com/yndnr/devloop/internal/server/globals"
	"github.com/yndnr/devloop/internal/storage/queue"
)

// DefaultInterval is the drain cadence.
const DefaultInterval = 300 * time.Millisecond

// Recorder receives loop metrics. *metric.Registry implements it.
type Recorder interface {
	RecordApplied(kind string)
	RecordFailed(kind string)
	RecordDrainError()
	ObserveDrain(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordApplied(string) {}
func (nopRecorder) RecordFailed(string)  {}
func (nopRecorder) RecordDrainError()    {}
func (nopRecorder) ObserveDrain(int)     {}

// Config configures a Loop.
type Config struct {
	Queue    queue.Queue
	Globals  *globals.Globals
	Interval time.Duration
	Logger   *slog.Logger
	Recorder Recorder

	// OnStop is called once, from the loop goroutine, when the first Stop
	// request is applied.
	OnStop func()
}

// Loop is the single writer of Globals and the single consumer of Queue.
type Loop struct {
	queue    queue.Queue
	globals  *globals.Globals
	interval time.Duration
	logger   *slog.Logger
	recorder Recorder
	onStop   func()

	state lifecycle
	wake  chan struct{}
}

// New creates a loop in StateStarting.
func New(cfg Config) *Loop {
	l := &Loop{
		queue:    cfg.Queue,
		globals:  cfg.Globals,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
		onStop:   cfg.OnStop,
		wake:     make(chan struct{}, 1),
	}
	if l.interval <= 0 {
		l.interval = DefaultInterval
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.recorder == nil {
		l.recorder = nopRecorder{}
	}
	if l.globals == nil {
		l.globals = globals.New()
	}
	return l
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	return l.state.load()
}

// Globals returns the values the loop publishes.
func (l *Loop) Globals() *globals.Globals {
	return l.globals
}

// Wake asks for an immediate drain. It never blocks.
func (l *Loop) Wake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// StopReason tells why Run returned.
type StopReason int

const (
	// StopRequested: a Stop request was applied.
	StopRequested StopReason = iota + 1
	// StopCancelled: the context ended, usually on a signal.
	StopCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopRequested:
		return "requested"
	case StopCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Run drains the queue until a Stop request is applied or ctx ends. It
// moves the loop from Starting to Running on entry and to Stopping on
// return.
func (l *Loop) Run(ctx context.Context) (StopReason, error) {
	if !l.state.transition(StateStarting, StateRunning) {
		return 0, fmt.Errorf("control: cannot run from state %s", l.State())
	}
	l.logger.Info("control loop running", "interval", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.state.advance(StateStopping)
			l.logger.Info("control loop cancelled", "cause", context.Cause(ctx))
			return StopCancelled, nil
		case <-ticker.C:
		case <-l.wake:
		}

		if l.Tick(ctx) {
			return StopRequested, nil
		}
	}
}

// Tick drains once and applies every request in order. It reports whether
// the loop has left the Running state.
func (l *Loop) Tick(ctx context.Context) bool {
	reqs, err := l.queue.DrainAll(ctx)
	if err != nil {
		l.recorder.RecordDrainError()
		l.logger.Warn("failed to drain request queue", "error", err)
		return l.State() >= StateStopping
	}
	l.recorder.ObserveDrain(len(reqs))

	for _, req := range reqs {
		if err := l.apply(req); err != nil {
			l.recorder.RecordFailed(req.Kind.String())
			l.logger.Error("failed to apply request",
				"kind", req.Kind.String(),
				"id", req.ID,
				"error", err,
			)
			continue
		}
		l.recorder.RecordApplied(req.Kind.String())
	}
	return l.State() >= StateStopping
}

// Terminate marks teardown as finished.
func (l *Loop) Terminate() {
	l.state.advance(StateTerminated)
}

// apply runs one request. A panic is converted to an error so one bad
// request cannot take the loop down.
func (l *Loop) apply(req *domain.Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.ErrInternal.WithDetails(fmt.Sprintf("panic applying %s: %v", req.Kind, r))
		}
	}()

	switch req.Kind {
	case domain.KindStop:
		if !l.state.advance(StateStopping) {
			l.logger.Debug("stop ignored, already stopping", "id", req.ID)
			return nil
		}
		l.logger.Info("stop requested", "id", req.ID)
		if l.onStop != nil {
			l.onStop()
		}
	case domain.KindIncrementVersion:
		v := l.globals.IncrementVersion()
		l.logger.Debug("version incremented", "version", v, "id", req.ID)
	case domain.KindSetStatus:
		l.globals.SetStatus(req.Message)
		l.logger.Debug("status set", "status", req.Message, "id", req.ID)
	case domain.KindClearStatus:
		l.globals.ClearStatus()
		l.logger.Debug("status cleared", "id", req.ID)
	default:
		return domain.ErrMalformedRequest.WithDetails(fmt.Sprintf("unhandled kind %s", req.Kind))
	}
	return nil
}
