// Package main provides the entry point for devloop-server.
//
// devloop-server is the long-lived development server of a devloop
// project. It must be started in the project root (the folder holding
// .devloop/) and is normally launched by `devloop start`.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/yndnr/devloop/internal/infra/buildinfo"
	"github.com/yndnr/devloop/internal/infra/project"
	"github.com/yndnr/devloop/internal/server/config"
	"github.com/yndnr/devloop/internal/server/devserver"
	"github.com/yndnr/devloop/internal/telemetry/logger"
	"github.com/yndnr/devloop/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dir         = flag.String("dir", ".", "Project root (the folder containing .devloop)")
		logLevel    = flag.String("log-level", "", "Override log.level")
		logFormat   = flag.String("log-format", "", "Override log.format")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("devloop-server %s\n", buildinfo.String())
		return nil
	}

	p, err := project.Open(*dir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(p, map[string]any{
		"log.level":  *logLevel,
		"log.format": *logFormat,
	})
	if err != nil {
		return err
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting devloop-server",
		"version", buildinfo.Version,
		"root", p.Root,
		"pid", os.Getpid(),
	)
	log.Debug("configuration loaded", "config", cfg.String())

	srv, err := devserver.New(devserver.Options{
		Project:      p,
		Config:       cfg,
		Logger:       log,
		Metrics:      metric.Global(),
		BuildVersion: buildinfo.Version,
	})
	if err != nil {
		return err
	}

	if err := srv.Run(context.Background()); err != nil {
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// initLogger creates the process logger and installs it as default.
func initLogger(cfg *config.ProjectConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)
	return log, nil
}
