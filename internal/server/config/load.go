package config

import (
	"fmt"
	"path/filepath"

	"github.com/yndnr/devloop/internal/infra/confloader"
	"github.com/yndnr/devloop/internal/infra/project"
)

// Load reads the project's conf.yaml over Default(), applies DEVLOOP_*
// environment variables and then overrides (dotted keys, empty strings
// ignored), resolves site.root against the project root and verifies the
// result.
func Load(p *project.Project, overrides map[string]any) (*ProjectConfig, error) {
	if err := p.RequireConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(p.ConfigPath()),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", p.ConfigPath(), err)
	}

	if cfg.Site.Root != "" && !filepath.IsAbs(cfg.Site.Root) {
		cfg.Site.Root = filepath.Join(p.Root, cfg.Site.Root)
	}

	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
