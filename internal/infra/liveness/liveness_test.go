package liveness

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/yndnr/devloop/internal/core/domain"
)

func TestProcessOracle_Self(t *testing.T) {
	o := NewProcessOracle()
	if !o.IsAlive(context.Background(), os.Getpid()) {
		t.Error("IsAlive(self) = false")
	}
}

func TestProcessOracle_InvalidPID(t *testing.T) {
	o := NewProcessOracle()
	for _, pid := range []int{0, -1} {
		if o.IsAlive(context.Background(), pid) {
			t.Errorf("IsAlive(%d) = true", pid)
		}
	}
}

func TestProcessOracle_ExitedProcess(t *testing.T) {
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	if err := cmd.Run(); err != nil {
		t.Fatalf("run child: %v", err)
	}
	pid := cmd.ProcessState.Pid()

	if NewProcessOracle().IsAlive(context.Background(), pid) {
		t.Skipf("pid %d was reused before the check", pid)
	}
}

type fakeStore struct {
	state    *domain.ServerState
	readErr  error
	cleared  int
	clearErr error
}

func (f *fakeStore) Read() (*domain.ServerState, error) { return f.state, f.readErr }

func (f *fakeStore) Clear() error {
	f.cleared++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.state = nil
	return nil
}

func TestReclaim(t *testing.T) {
	alive := FuncOracle(func(context.Context, int) bool { return true })
	dead := FuncOracle(func(context.Context, int) bool { return false })

	t.Run("absent", func(t *testing.T) {
		store := &fakeStore{}
		state, reclaimed, err := Reclaim(context.Background(), store, dead)
		if err != nil || state != nil || reclaimed {
			t.Fatalf("Reclaim() = %v, %v, %v", state, reclaimed, err)
		}
		if store.cleared != 0 {
			t.Error("absent state should not be cleared")
		}
	})

	t.Run("alive", func(t *testing.T) {
		store := &fakeStore{state: &domain.ServerState{Port: 8080, PID: 10}}
		state, reclaimed, err := Reclaim(context.Background(), store, alive)
		if err != nil || reclaimed {
			t.Fatalf("Reclaim() = %v, %v, %v", state, reclaimed, err)
		}
		if state == nil || state.Port != 8080 {
			t.Errorf("state = %+v", state)
		}
		if store.cleared != 0 {
			t.Error("live state should not be cleared")
		}
	})

	t.Run("stale", func(t *testing.T) {
		store := &fakeStore{state: &domain.ServerState{Port: 8080, PID: 10}}
		state, reclaimed, err := Reclaim(context.Background(), store, dead)
		if err != nil || state != nil || !reclaimed {
			t.Fatalf("Reclaim() = %v, %v, %v", state, reclaimed, err)
		}
		if store.cleared != 1 {
			t.Errorf("cleared = %d, want 1", store.cleared)
		}
	})

	t.Run("read error", func(t *testing.T) {
		store := &fakeStore{readErr: errors.New("disk")}
		if _, _, err := Reclaim(context.Background(), store, dead); err == nil {
			t.Fatal("Reclaim() should propagate read errors")
		}
	})

	t.Run("clear error", func(t *testing.T) {
		store := &fakeStore{state: &domain.ServerState{Port: 8080, PID: 10}, clearErr: errors.New("perm")}
		if _, _, err := Reclaim(context.Background(), store, dead); err == nil {
			t.Fatal("Reclaim() should propagate clear errors")
		}
	})
}
