package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/yndnr/devloop/internal/core/domain"
	"github.com/yndnr/devloop/internal/telemetry/logger"
)

// Verify validates the configuration. Every problem is reported, wrapped
// in ErrConfigInvalid.
func Verify(cfg *ProjectConfig) error {
	errs := append(verifyServer(&cfg.Server), verifyClient(&cfg.Client)...)
	errs = append(errs, verifySite(&cfg.Site)...)
	errs = append(errs, verifyLog(&cfg.Log)...)

	if len(errs) == 0 {
		return nil
	}
	joined := errors.Join(errs...)
	return domain.ErrConfigInvalid.WithDetails(joined.Error()).WithCause(joined)
}

func verifyServer(cfg *ServerSection) []error {
	var errs []error
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Port))
	}
	if cfg.Env != EnvDev && cfg.Env != EnvProd {
		errs = append(errs, fmt.Errorf("server.env must be %q or %q, got %q", EnvDev, EnvProd, cfg.Env))
	}
	if cfg.PollInterval <= 0 {
		errs = append(errs, errors.New("server.poll_interval must be positive"))
	}
	if cfg.ShutdownGrace < 0 {
		errs = append(errs, errors.New("server.shutdown_grace must not be negative"))
	}
	if cfg.PortAttempts < 1 {
		errs = append(errs, errors.New("server.port_attempts must be at least 1"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}
	return errs
}

func verifyClient(cfg *ClientSection) []error {
	var errs []error
	if cfg.PollInterval <= 0 {
		errs = append(errs, errors.New("client.poll_interval must be positive"))
	}
	if cfg.StopTimeout <= 0 {
		errs = append(errs, errors.New("client.stop_timeout must be positive"))
	}
	if cfg.StartTimeout <= 0 {
		errs = append(errs, errors.New("client.start_timeout must be positive"))
	}
	return errs
}

func verifySite(cfg *SiteSection) []error {
	if cfg.Root == "" {
		return nil
	}
	fi, err := os.Stat(cfg.Root)
	if err != nil {
		return []error{fmt.Errorf("site.root: %w", err)}
	}
	if !fi.IsDir() {
		return []error{fmt.Errorf("site.root %s is not a directory", cfg.Root)}
	}
	return nil
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level))
	}
	if cfg.Format != "json" && cfg.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", cfg.Format))
	}
	return errs
}
