// Package globals holds the values the control loop publishes to HTTP
// handlers: the live-reload version and the optional status message.
//
// The control loop is the only writer; any number of goroutines may read.
package globals
