package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/devloop/internal/core/domain"
)

// Layout constants, relative to the project root.
const (
	FolderName    = ".devloop"
	ConfigFile    = "conf.yaml"
	ServerDir     = "server"
	StateFile     = "state.yaml"
	RequestsFile  = "requests.log"
	ServerLogFile = "server.log"
)

// Project is a located devloop project.
type Project struct {
	Root string
}

// Folder returns the .devloop folder.
func (p *Project) Folder() string { return filepath.Join(p.Root, FolderName) }

// ConfigPath returns the path of conf.yaml.
func (p *Project) ConfigPath() string { return filepath.Join(p.Folder(), ConfigFile) }

// ServerDir returns the folder holding the control-plane files.
func (p *Project) ServerDir() string { return filepath.Join(p.Folder(), ServerDir) }

// StatePath returns the path of the state record.
func (p *Project) StatePath() string { return filepath.Join(p.ServerDir(), StateFile) }

// RequestsPath returns the path of the request queue.
func (p *Project) RequestsPath() string { return filepath.Join(p.ServerDir(), RequestsFile) }

// ServerLogPath returns where a detached server writes its output.
func (p *Project) ServerLogPath() string { return filepath.Join(p.ServerDir(), ServerLogFile) }

// Open returns the project rooted exactly at dir.
func Open(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if !isDir(filepath.Join(abs, FolderName)) {
		return nil, domain.ErrProjectNotFound.WithDetails(fmt.Sprintf("no %s folder in %s", FolderName, abs))
	}
	return &Project{Root: abs}, nil
}

// Find walks from dir up to the filesystem root and returns the first
// directory containing a .devloop folder.
func Find(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for cur := abs; ; {
		if isDir(filepath.Join(cur, FolderName)) {
			return &Project{Root: cur}, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return nil, domain.ErrProjectNotFound.WithDetails(fmt.Sprintf("no %s folder in %s or any parent", FolderName, abs))
}

// RequireConfig fails with ErrConfigMissing when conf.yaml does not exist.
func (p *Project) RequireConfig() error {
	_, err := os.Stat(p.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return domain.ErrConfigMissing.WithDetails(p.ConfigPath())
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", p.ConfigPath(), err)
	}
	return nil
}

// EnsureServerDir creates the control-plane folder.
func (p *Project) EnsureServerDir() error {
	if err := os.MkdirAll(p.ServerDir(), 0750); err != nil {
		return fmt.Errorf("create %s: %w", p.ServerDir(), err)
	}
	return nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
