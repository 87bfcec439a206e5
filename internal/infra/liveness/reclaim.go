package liveness

import (
	"context"
	"fmt"

	"github.com/yndnr/devloop/internal/core/domain"
)

// StateStore is the part of the state store Reclaim needs.
type StateStore interface {
	Read() (*domain.ServerState, error)
	Clear() error
}

// Reclaim returns the recorded server state when its process is alive.
// A record whose process is gone is cleared and reported through
// reclaimed; the caller then proceeds as if no server existed.
func Reclaim(ctx context.Context, store StateStore, oracle Oracle) (state *domain.ServerState, reclaimed bool, err error) {
	state, err = store.Read()
	if err != nil {
		return nil, false, fmt.Errorf("read server state: %w", err)
	}
	if state == nil {
		return nil, false, nil
	}
	if oracle.IsAlive(ctx, state.PID) {
		return state, false, nil
	}
	if err := store.Clear(); err != nil {
		return nil, false, fmt.Errorf("clear stale server state: %w", err)
	}
	return nil, true, nil
}
