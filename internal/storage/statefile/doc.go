// Package statefile persists the single ServerState record.
//
// The record is published by writing a temporary file next to the target
// and renaming it into place, so readers observe either the previous
// record, the new record, or no record. A record that cannot be decoded
// is reported and treated as absent.
package statefile
