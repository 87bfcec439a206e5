package statefile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/devloop/internal/core/domain"
)

const (
	dirPerm  = 0750
	filePerm = 0600
)

// Store reads and writes the state record at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report malformed records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New returns a store for path. The file need not exist.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the record location.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current record, or nil when none exists. Unreadable or
// invalid content also yields nil.
func (s *Store) Read() (*domain.ServerState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("statefile: read %s: %w", s.path, err)
	}

	state, err := decode(data)
	if err != nil {
		s.logger.Warn("ignoring malformed server state",
			"path", s.path,
			"code", domain.GetErrorCode(err),
			"error", err,
		)
		return nil, nil
	}
	return state, nil
}

// Write atomically replaces the record.
func (s *Store) Write(state *domain.ServerState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("statefile: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("statefile: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("statefile: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("statefile: create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("statefile: write temp: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("statefile: chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("statefile: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("statefile: close temp: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("statefile: rename: %w", err)
	}
	syncDir(dir)
	return nil
}

// Clear removes the record. Removing an absent record is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("statefile: remove %s: %w", s.path, err)
	}
	return nil
}

func decode(data []byte) (*domain.ServerState, error) {
	var state domain.ServerState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, domain.ErrMalformedState.WithCause(err)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// syncDir flushes the directory entry after a rename. Platforms that
// cannot open directories for sync are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}
