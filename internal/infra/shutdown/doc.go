// Package shutdown coordinates process teardown.
//
// A Handler collects hooks and runs them in reverse registration order
// once SIGINT or SIGTERM arrives, Trigger is called, or the context given
// to Wait ends. Every hook runs even if an earlier one fails.
package shutdown
