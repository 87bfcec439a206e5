// Package liveness answers whether a process recorded in the state store
// still exists.
package liveness
