package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/devloop/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show whether the server runs and its live-reload state",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	format, err := output.ParseFormat(ParseGlobalFlags(c).Output)
	if err != nil {
		return err
	}

	e, err := openEnv(c, nil)
	if err != nil {
		return err
	}

	res, err := e.control.Status(c.Context)
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(outWriter(c), res)
}
