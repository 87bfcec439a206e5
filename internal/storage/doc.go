// Package storage groups the two files through which the devloop CLI and
// server coordinate.
//
// Architecture:
//
//   - statefile: the ServerState record, replaced atomically
//   - queue: the append-only request mailbox, drained atomically
//
// Engine bundles both for one project and owns teardown ordering: the
// queue is removed before the state record, so a client that sees the
// record disappear never finds leftovers from the old server.
package storage
