package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devloop/internal/core/domain"
)

// ReloadCommand returns the reload command.
func ReloadCommand() *cli.Command {
	return &cli.Command{
		Name:   "reload",
		Usage:  "Tell connected browsers to reload",
		Action: reloadAction,
	}
}

// NotifyCommand returns the notify subcommand group.
func NotifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Manage the status message shown to connected browsers",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set the status message",
				ArgsUsage: "<message>",
				Action:    notifySet,
			},
			{
				Name:   "clear",
				Usage:  "Clear the status message",
				Action: notifyClear,
			},
		},
	}
}

func reloadAction(c *cli.Context) error {
	return post(c, domain.NewIncrementVersionRequest(), "Reload requested")
}

func notifySet(c *cli.Context) error {
	msg := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if msg == "" {
		return domain.ErrInvalidArgument.WithDetails("message is required")
	}
	return post(c, domain.NewSetStatusRequest(msg), "Status set")
}

func notifyClear(c *cli.Context) error {
	return post(c, domain.NewClearStatusRequest(), "Status cleared")
}

func post(c *cli.Context, req *domain.Request, done string) error {
	e, err := openEnv(c, nil)
	if err != nil {
		return err
	}
	if err := e.control.Notify(c.Context, req); err != nil {
		return err
	}
	fmt.Fprintf(outWriter(c), "✓ %s\n", done)
	return nil
}
