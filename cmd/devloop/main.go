// Package main provides the entry point for devloop.
//
// devloop is the short-lived control CLI of a project's development
// server:
//
//	devloop start
//	devloop reload
//	devloop notify set "build failed"
//	devloop status -o json
//	devloop stop
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yndnr/devloop/internal/cli/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.App().RunContext(ctx, os.Args); err != nil {
		stop()
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
