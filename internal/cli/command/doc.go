// Package command provides the devloop CLI commands.
//
// Commands are built with urfave/cli/v2:
//
//   - root.go: application, global flags, project and service wiring
//   - start.go: start a detached server
//   - stop.go: ask the server to stop and wait for it
//   - status.go: report the server and its live-reload values
//   - notify.go: reload and status-message requests
//
// Every command locates the project, loads its config and drives the
// server through service.ControlService.
package command
