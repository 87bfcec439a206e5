package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devloop/internal/cli/output"
	"github.com/yndnr/devloop/internal/core/service"
	"github.com/yndnr/devloop/internal/server/config"
)

// StopCommand returns the stop command.
func StopCommand() *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "Stop the development server and wait for it to exit",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the server to exit",
			},
		},
		Action: stopAction,
	}
}

func stopAction(c *cli.Context) error {
	e, err := openEnv(c, func(cs *config.ClientSection) {
		if d := c.Duration("timeout"); d > 0 {
			cs.StopTimeout = d
		}
	})
	if err != nil {
		return err
	}

	spinner := output.NewSpinner(errWriter(c), "Stopping server...")
	if !ParseGlobalFlags(c).Verbose {
		spinner.Start()
	}

	res, err := e.control.Stop(c.Context)
	if err != nil {
		spinner.Fail("Stop failed")
		return err
	}
	spinner.Stop()

	w := outWriter(c)
	switch res.Outcome {
	case service.StopNotRunning:
		fmt.Fprintln(w, "No server running")
	case service.StopReclaimed:
		fmt.Fprintln(w, "No server running (removed stale state)")
	default:
		fmt.Fprintf(w, "✓ Server at %s stopped in %s\n", res.State.DisplayText(), res.Elapsed.Round(time.Millisecond))
	}
	return nil
}
