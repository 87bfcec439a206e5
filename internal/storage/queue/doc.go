// Package queue carries requests from short-lived clients to the running
// server through an append-only file.
//
// Any number of processes may Enqueue concurrently; one consumer calls
// DrainAll, which returns every pending request and empties the queue in
// a single step. A drained request is never returned twice and a request
// whose Enqueue returned nil is never lost. An empty queue leaves no file
// behind.
//
// Entry wire format:
//
//	[Length:4][CRC32:4][Kind:1][Payload:Length-5]
//
// Where:
//   - Length = CRC32 + Kind + Payload (big-endian uint32)
//   - CRC32 covers Kind+Payload (IEEE)
//   - Payload is JSON {"id","ts","message"}
//
// Exclusion between processes uses an advisory flock(2) on the queue file.
// After locking, a writer checks that its descriptor still names the path;
// if a drain removed the file meanwhile it reopens, so an append lands
// either in the batch being drained or in the next one.
package queue
