// Package portalloc finds a bindable TCP port starting from a preferred one.
package portalloc
