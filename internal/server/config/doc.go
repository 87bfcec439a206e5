// Package config defines the project configuration read from
// .devloop/conf.yaml:
//
//   - types.go: ProjectConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation
//   - load.go: Loading through internal/infra/confloader
//   - render.go: YAML rendering for logs and the CLI
//
// Values come from the file, then DEVLOOP_* environment variables, then
// command-line overrides.
package config
