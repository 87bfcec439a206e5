// Package logger builds the structured loggers of devloop.
//
//   - logger.go: construction from Config and level parsing
//   - context.go: request IDs carried in a context and stamped on records
//   - redact.go: masking of credentials before they reach the output
//
// Components take a plain *slog.Logger. The server logs JSON by default;
// the CLI logs text to stderr and stays quiet unless --verbose is given.
package logger
