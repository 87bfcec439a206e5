package config

import "time"

// Environment modes.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// ProjectConfig is the root configuration of a devloop project.
type ProjectConfig struct {
	Server ServerSection `koanf:"server" yaml:"server"`
	Client ClientSection `koanf:"client" yaml:"client"`
	Site   SiteSection   `koanf:"site" yaml:"site"`
	Log    LogSection    `koanf:"log" yaml:"log"`
}

// ServerSection configures devloop-server.
type ServerSection struct {
	// Host is used both to probe ports and to listen.
	Host string `koanf:"host" yaml:"host"`

	// Port is the preferred port; the allocator moves upward when busy.
	Port int `koanf:"port" yaml:"port"`

	// Env is the environment mode. Live-reload routes exist only in dev.
	Env string `koanf:"env" yaml:"env"`

	PollInterval  time.Duration `koanf:"poll_interval" yaml:"poll_interval"`
	ShutdownGrace time.Duration `koanf:"shutdown_grace" yaml:"shutdown_grace"`
	PortAttempts  int           `koanf:"port_attempts" yaml:"port_attempts"`

	// RateLimit is requests/second per client IP; 0 disables it.
	RateLimit          int      `koanf:"rate_limit" yaml:"rate_limit"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" yaml:"cors_allowed_origins,omitempty"`
}

// LiveReload reports whether the live-reload endpoints are served.
func (s ServerSection) LiveReload() bool {
	return s.Env == EnvDev
}

// ClientSection configures the devloop CLI.
type ClientSection struct {
	PollInterval time.Duration `koanf:"poll_interval" yaml:"poll_interval"`
	StopTimeout  time.Duration `koanf:"stop_timeout" yaml:"stop_timeout"`
	StartTimeout time.Duration `koanf:"start_timeout" yaml:"start_timeout"`
}

// SiteSection configures the static site served at /.
type SiteSection struct {
	// Root is relative to the project root unless absolute. Empty
	// disables static serving.
	Root string `koanf:"root" yaml:"root"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}
