// Package output renders CLI results as a table, JSON or YAML, and shows a
// spinner while a command waits on the server.
package output
