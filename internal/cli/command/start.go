package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devloop/internal/core/service"
	"github.com/yndnr/devloop/internal/server/config"
)

// StartCommand returns the start command.
func StartCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start the development server in the background",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server-bin",
				Usage:   "Path to the devloop-server executable",
				EnvVars: []string{"DEVLOOP_SERVER_BIN"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the server to publish its state",
			},
		},
		Action: startAction,
	}
}

func startAction(c *cli.Context) error {
	e, err := openEnv(c, func(cs *config.ClientSection) {
		if d := c.Duration("timeout"); d > 0 {
			cs.StartTimeout = d
		}
	})
	if err != nil {
		return err
	}

	bin, err := service.ResolveServerBinary(c.String("server-bin"))
	if err != nil {
		return err
	}
	if err := e.project.EnsureServerDir(); err != nil {
		return err
	}

	launcher := &service.ExecLauncher{
		Binary:  bin,
		Dir:     e.project.Root,
		Args:    []string{"--dir", e.project.Root},
		LogPath: e.project.ServerLogPath(),
	}

	res, err := e.control.Start(c.Context, launcher)
	if err != nil {
		return err
	}

	w := outWriter(c)
	if res.AlreadyRunning {
		fmt.Fprintf(w, "Server already running at %s\n", res.State.DisplayText())
		return nil
	}
	fmt.Fprintf(w, "✓ Server started at %s\n", res.State.DisplayText())
	fmt.Fprintf(w, "  Log: %s\n", e.project.ServerLogPath())
	return nil
}
