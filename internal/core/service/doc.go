// Package service implements the client side of the devloop control
// plane: discovering a running server through its state record, posting
// requests to its queue and waiting for it to start or stop.
//
// Every operation begins by reading the state record and checking that
// the recorded process is alive; a record left behind by a dead server
// is removed on the spot.
package service
