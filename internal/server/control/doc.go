// Package control runs the server's command loop: it drains the request
// queue on a fixed interval and applies each request to the globals.
package control
