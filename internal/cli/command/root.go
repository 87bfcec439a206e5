package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devloop/internal/cli/connection"
	"github.com/yndnr/devloop/internal/cli/output"
	"github.com/yndnr/devloop/internal/core/service"
	"github.com/yndnr/devloop/internal/infra/buildinfo"
	"github.com/yndnr/devloop/internal/infra/project"
	"github.com/yndnr/devloop/internal/server/config"
	"github.com/yndnr/devloop/internal/storage"
	"github.com/yndnr/devloop/internal/telemetry/logger"
)

const loggerKey = "logger"

// stderr receives PrintError output.
var stderr io.Writer = os.Stderr

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "devloop",
		Usage:    "Control the live-reload development server of a project",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			StartCommand(),
			StopCommand(),
			StatusCommand(),
			ReloadCommand(),
			NotifyCommand(),
		},
		Before: func(c *cli.Context) error {
			if _, err := output.ParseFormat(c.String("output")); err != nil {
				return err
			}
			return initLogger(c)
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"C"},
			Usage:   "Directory to search for the .devloop folder",
			EnvVars: []string{"DEVLOOP_DIR"},
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Dir     string
	Output  string // table, json, yaml
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Dir:     c.String("dir"),
		Output:  c.String("output"),
		Verbose: c.Bool("verbose"),
	}
}

func initLogger(c *cli.Context) error {
	level := "warn"
	if c.Bool("verbose") {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:  level,
		Format: "text",
		Output: errWriter(c),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.App.Metadata[loggerKey] = log
	return nil
}

// getLogger returns the logger installed by Before, or the default.
func getLogger(c *cli.Context) *slog.Logger {
	if c.App.Metadata != nil {
		if l, ok := c.App.Metadata[loggerKey].(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// env bundles what a command needs to drive the project's server.
type env struct {
	project *project.Project
	config  *config.ProjectConfig
	control *service.ControlService
}

// openEnv locates the project, loads its config and builds the control
// service. tune may adjust the client settings before the service is built.
func openEnv(c *cli.Context, tune func(*config.ClientSection)) (*env, error) {
	flags := ParseGlobalFlags(c)

	p, err := project.Find(flags.Dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p, nil)
	if err != nil {
		return nil, err
	}
	if tune != nil {
		tune(&cfg.Client)
	}

	log := getLogger(c)
	engine := storage.New(storage.Config{
		StatePath: p.StatePath(),
		QueuePath: p.RequestsPath(),
		Logger:    log,
	})

	ctl := service.NewControlService(service.ControlConfig{
		Store:        engine.State,
		Queue:        engine.Queue,
		Probe:        connection.Probe,
		Logger:       log,
		PollInterval: cfg.Client.PollInterval,
		StopTimeout:  cfg.Client.StopTimeout,
		StartTimeout: cfg.Client.StartTimeout,
	})
	log.Debug("project located", "root", p.Root)

	return &env{project: p, config: cfg, control: ctl}, nil
}

func outWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(stderr, "error: "+format+"\n", args...)
}
