// Package domain defines the values shared by the devloop server and CLI.
//
// Domain values are plain data without IO dependencies. This package contains:
//
//   - ServerState: the port and PID of the running server
//   - Request: one command posted to the server through the request queue
//   - Errors: coded error values used across the module
//
// Both sides of the control plane validate what they read, so a value that
// fails Validate is treated as if it had never been written.
package domain
