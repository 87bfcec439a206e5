package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ExecLauncher runs the server binary detached from the caller's
// terminal, with stdout and stderr appended to LogPath.
type ExecLauncher struct {
	// Binary is the devloop-server executable.
	Binary string
	// Dir is the project root; the server runs there.
	Dir string
	// Args are extra arguments for the server.
	Args []string
	// LogPath receives the server's output.
	LogPath string
	// Env is appended to the current environment.
	Env []string
}

// Launch starts the process and returns without waiting for it.
func (l *ExecLauncher) Launch(_ context.Context) (int, <-chan error, error) {
	if err := os.MkdirAll(filepath.Dir(l.LogPath), 0750); err != nil {
		return 0, nil, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(l.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return 0, nil, fmt.Errorf("open server log: %w", err)
	}
	// The child keeps its own descriptor.
	defer logFile.Close()

	// Not tied to ctx: the server must outlive the CLI invocation.
	cmd := exec.Command(l.Binary, l.Args...)
	cmd.Dir = l.Dir
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = append(os.Environ(), l.Env...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return 0, nil, fmt.Errorf("start %s: %w", l.Binary, err)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()
	return cmd.Process.Pid, exited, nil
}

// ResolveServerBinary finds devloop-server: an explicit path wins, then a
// sibling of the running executable, then $PATH.
func ResolveServerBinary(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	const name = "devloop-server"
	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", name, err)
	}
	return path, nil
}
