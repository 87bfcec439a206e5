package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/devloop/internal/core/domain"
)

func TestEngine_Teardown(t *testing.T) {
	dir := t.TempDir()
	e := New(Config{
		StatePath: filepath.Join(dir, "state.yaml"),
		QueuePath: filepath.Join(dir, "requests.log"),
	})
	ctx := context.Background()

	if err := e.State.Write(&domain.ServerState{Port: 8080, PID: os.Getpid()}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := e.Queue.Enqueue(ctx, domain.NewIncrementVersionRequest()); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if err := e.Teardown(ctx); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}

	for _, p := range []string{e.State.Path(), e.Queue.Path()} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists after teardown", p)
		}
	}

	// Idempotent.
	if err := e.Teardown(ctx); err != nil {
		t.Errorf("second Teardown() error = %v", err)
	}
}

func TestEngine_OnMalformed(t *testing.T) {
	dir := t.TempDir()
	count := 0
	e := New(Config{
		StatePath:   filepath.Join(dir, "state.yaml"),
		QueuePath:   filepath.Join(dir, "requests.log"),
		OnMalformed: func(error) { count++ },
	})

	if err := os.WriteFile(e.Queue.Path(), []byte{0, 0, 0}, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Queue.DrainAll(context.Background()); err != nil {
		t.Fatalf("DrainAll() error = %v", err)
	}
	if count != 1 {
		t.Errorf("OnMalformed called %d times, want 1", count)
	}
}
