package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yndnr/devloop/internal/core/domain"
	"github.com/yndnr/devloop/internal/infra/liveness"
)

// Default timings.
const (
	DefaultPollInterval = 300 * time.Millisecond
	DefaultStopTimeout  = 30 * time.Second
	DefaultStartTimeout = 30 * time.Second
)

// StateStore is the read side of the state record plus stale removal.
type StateStore interface {
	Read() (*domain.ServerState, error)
	Clear() error
}

// Enqueuer posts requests to the server.
type Enqueuer interface {
	Enqueue(ctx context.Context, req *domain.Request) error
}

// LiveProbe fetches the live-reload version and status from a running
// server.
type LiveProbe func(ctx context.Context, state *domain.ServerState) (version int64, status string, err error)

// ControlConfig configures a ControlService.
type ControlConfig struct {
	Store  StateStore
	Queue  Enqueuer
	Oracle liveness.Oracle
	Probe  LiveProbe
	Logger *slog.Logger

	PollInterval time.Duration
	StopTimeout  time.Duration
	StartTimeout time.Duration
}

// ControlService drives a project's server from the outside.
type ControlService struct {
	store  StateStore
	queue  Enqueuer
	oracle liveness.Oracle
	probe  LiveProbe
	logger *slog.Logger

	pollInterval time.Duration
	stopTimeout  time.Duration
	startTimeout time.Duration
}

// NewControlService creates a ControlService. Zero durations select the
// defaults.
func NewControlService(cfg ControlConfig) *ControlService {
	s := &ControlService{
		store:        cfg.Store,
		queue:        cfg.Queue,
		oracle:       cfg.Oracle,
		probe:        cfg.Probe,
		logger:       cfg.Logger,
		pollInterval: cfg.PollInterval,
		stopTimeout:  cfg.StopTimeout,
		startTimeout: cfg.StartTimeout,
	}
	if s.oracle == nil {
		s.oracle = liveness.NewProcessOracle()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.pollInterval <= 0 {
		s.pollInterval = DefaultPollInterval
	}
	if s.stopTimeout <= 0 {
		s.stopTimeout = DefaultStopTimeout
	}
	if s.startTimeout <= 0 {
		s.startTimeout = DefaultStartTimeout
	}
	return s
}

// StopOutcome describes how Stop finished.
type StopOutcome int

const (
	// StopNotRunning: no state record existed.
	StopNotRunning StopOutcome = iota
	// StopReclaimed: the record named a dead process and was removed.
	StopReclaimed
	// StopStopped: a live server acknowledged the stop by removing its record.
	StopStopped
)

// String returns the outcome name.
func (o StopOutcome) String() string {
	switch o {
	case StopNotRunning:
		return "not_running"
	case StopReclaimed:
		return "reclaimed"
	case StopStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopResult is returned by Stop.
type StopResult struct {
	Outcome StopOutcome
	// State is the record the server had published, if any.
	State   *domain.ServerState
	Elapsed time.Duration
}

// Stop asks the running server to shut down and waits until its state
// record disappears. A dead server's record is removed without posting a
// request. Waiting is bounded by the stop timeout and ctx.
func (s *ControlService) Stop(ctx context.Context) (*StopResult, error) {
	start := time.Now()

	state, reclaimed, err := liveness.Reclaim(ctx, s.store, s.oracle)
	if err != nil {
		return nil, err
	}
	if reclaimed {
		s.logger.Debug("removed stale server state")
		return &StopResult{Outcome: StopReclaimed, Elapsed: time.Since(start)}, nil
	}
	if state == nil {
		return &StopResult{Outcome: StopNotRunning, Elapsed: time.Since(start)}, nil
	}

	if err := s.queue.Enqueue(ctx, domain.NewStopRequest()); err != nil {
		return nil, fmt.Errorf("post stop request: %w", err)
	}
	s.logger.Debug("stop request posted", "pid", state.PID, "port", state.Port)

	waitCtx, cancel := context.WithTimeout(ctx, s.stopTimeout)
	defer cancel()

	err = s.poll(waitCtx, func() (bool, error) {
		cur, err := s.store.Read()
		if err != nil {
			return false, err
		}
		if cur == nil {
			return true, nil
		}
		// A server that died mid-shutdown leaves its record behind.
		if !s.oracle.IsAlive(waitCtx, cur.PID) {
			return true, s.store.Clear()
		}
		return false, nil
	})
	if err != nil {
		if ctx.Err() == nil && waitCtx.Err() != nil {
			return nil, domain.ErrStopTimeout.WithDetails(
				fmt.Sprintf("%s still running after %s", state.DisplayText(), s.stopTimeout))
		}
		return nil, err
	}

	return &StopResult{Outcome: StopStopped, State: state, Elapsed: time.Since(start)}, nil
}

// Notify posts a live-reload request. Requests are only posted while a
// live server exists; otherwise nothing would ever drain them.
func (s *ControlService) Notify(ctx context.Context, req *domain.Request) error {
	if req == nil || req.Kind == domain.KindStop {
		return domain.ErrInvalidArgument.WithDetails("notify accepts increment_version, set_status and clear_status")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	state, _, err := liveness.Reclaim(ctx, s.store, s.oracle)
	if err != nil {
		return err
	}
	if state == nil {
		return domain.ErrNotRunning
	}

	if err := s.queue.Enqueue(ctx, req); err != nil {
		return fmt.Errorf("post %s request: %w", req.Kind, err)
	}
	s.logger.Debug("request posted", "kind", req.Kind.String(), "id", req.ID)
	return nil
}

// StatusResult describes the project's server.
type StatusResult struct {
	Running   bool   `json:"running" yaml:"running"`
	Reclaimed bool   `json:"reclaimed,omitempty" yaml:"reclaimed,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	Port      int    `json:"port,omitempty" yaml:"port,omitempty"`
	PID       int    `json:"pid,omitempty" yaml:"pid,omitempty"`

	// Filled from the server when it answers.
	Reachable   bool   `json:"reachable" yaml:"reachable"`
	LiveVersion int64  `json:"live_version" yaml:"live_version"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	ProbeError  string `json:"probe_error,omitempty" yaml:"probe_error,omitempty"`
}

// Status reports whether a server is running and, when it is, its
// live-reload values. An unreachable server is reported, not an error.
func (s *ControlService) Status(ctx context.Context) (*StatusResult, error) {
	state, reclaimed, err := liveness.Reclaim(ctx, s.store, s.oracle)
	if err != nil {
		return nil, err
	}
	res := &StatusResult{Reclaimed: reclaimed}
	if state == nil {
		return res, nil
	}

	res.Running = true
	res.URL = state.URL()
	res.Port = state.Port
	res.PID = state.PID

	if s.probe == nil {
		return res, nil
	}
	version, status, err := s.probe(ctx, state)
	if err != nil {
		res.ProbeError = err.Error()
		return res, nil
	}
	res.Reachable = true
	res.LiveVersion = version
	res.Status = status
	return res, nil
}

// poll calls check every poll interval until it reports done, fails or
// ctx ends.
func (s *ControlService) poll(ctx context.Context, check func() (bool, error)) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		done, err := check()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
