// Package fswatch notifies callers about changes to files in a directory.
//
// It wraps fsnotify. The directory is watched rather than the file so that
// files which are created, renamed over or removed are still reported.
// Notifications are hints: callers must still read the file to learn its
// state, because events can be coalesced or dropped by the platform.
package fswatch
