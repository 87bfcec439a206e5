package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yndnr/devloop/internal/core/domain"
	"github.com/yndnr/devloop/internal/infra/liveness"
)

// Launcher starts a server process in the background. The returned
// channel receives the process's exit status if it ends.
type Launcher interface {
	Launch(ctx context.Context) (pid int, exited <-chan error, err error)
}

// StartResult is returned by Start.
type StartResult struct {
	State *domain.ServerState
	// AlreadyRunning is set when a live server existed and nothing was
	// launched.
	AlreadyRunning bool
	Elapsed        time.Duration
}

// Start launches a server unless a live one exists, then waits until the
// new server publishes its state record.
func (s *ControlService) Start(ctx context.Context, launcher Launcher) (*StartResult, error) {
	start := time.Now()

	state, reclaimed, err := liveness.Reclaim(ctx, s.store, s.oracle)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return &StartResult{State: state, AlreadyRunning: true, Elapsed: time.Since(start)}, nil
	}
	if reclaimed {
		s.logger.Debug("removed stale server state")
	}

	pid, exited, err := launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch server: %w", err)
	}
	s.logger.Debug("server launched", "pid", pid)

	waitCtx, cancel := context.WithTimeout(ctx, s.startTimeout)
	defer cancel()

	var published *domain.ServerState
	err = s.poll(waitCtx, func() (bool, error) {
		select {
		case exitErr := <-exited:
			if exitErr == nil {
				exitErr = errors.New("exited with status 0")
			}
			return false, domain.ErrInternal.WithDetails("server exited during start-up").WithCause(exitErr)
		default:
		}

		cur, err := s.store.Read()
		if err != nil {
			return false, err
		}
		if cur == nil {
			return false, nil
		}
		published = cur
		return true, nil
	})
	if err != nil {
		if ctx.Err() == nil && waitCtx.Err() != nil {
			return nil, domain.ErrStartTimeout.WithDetails(
				fmt.Sprintf("no state record from PID %d after %s", pid, s.startTimeout))
		}
		return nil, err
	}

	return &StartResult{State: published, Elapsed: time.Since(start)}, nil
}
