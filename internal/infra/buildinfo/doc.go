// Package buildinfo provides build-time version information.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/devloop/internal/infra/buildinfo.Version=v0.3.0"
package buildinfo
