package config

import "time"

// Default configuration values.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8080
	DefaultEnv           = EnvDev
	DefaultPollInterval  = 300 * time.Millisecond
	DefaultShutdownGrace = 5 * time.Millisecond
	DefaultPortAttempts  = 100
	DefaultRateLimit     = 200

	DefaultStopTimeout  = 30 * time.Second
	DefaultStartTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default project configuration.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Server: ServerSection{
			Host:          DefaultHost,
			Port:          DefaultPort,
			Env:           DefaultEnv,
			PollInterval:  DefaultPollInterval,
			ShutdownGrace: DefaultShutdownGrace,
			PortAttempts:  DefaultPortAttempts,
			RateLimit:     DefaultRateLimit,
		},
		Client: ClientSection{
			PollInterval: DefaultPollInterval,
			StopTimeout:  DefaultStopTimeout,
			StartTimeout: DefaultStartTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
