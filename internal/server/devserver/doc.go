// Package devserver assembles the long-lived devloop-server process: it
// claims the project's state record, serves HTTP on an allocated port and
// runs the control loop until a stop request or a signal arrives.
package devserver
