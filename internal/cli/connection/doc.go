// Package connection talks to a running devloop server over HTTP.
//
// The server's loopback URL comes from the project state file; the client
// only reads the health and live-reload endpoints.
package connection
