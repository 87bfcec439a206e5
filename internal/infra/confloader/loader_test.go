package confloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Host         string        `koanf:"host"`
		Port         int           `koanf:"port"`
		PollInterval time.Duration `koanf:"poll_interval"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
	Debug bool `koanf:"debug"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader_WithOptions(t *testing.T) {
	overrides := map[string]any{"server.port": 1}
	l := NewLoader(
		WithConfigFile("/path/to/conf.yaml"),
		WithOverrides(overrides),
	)

	if l.filePath != "/path/to/conf.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/conf.yaml")
	}
	if len(l.overrides) != 1 {
		t.Errorf("overrides = %v, want one entry", l.overrides)
	}
}

func TestLoader_Load_File(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 8081
`)

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Port = %d, want %d", cfg.Server.Port, 8081)
	}
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	var cfg testConfig
	err := NewLoader(WithConfigFile("/nonexistent/conf.yaml")).Load(&cfg)
	if err == nil {
		t.Fatal("Load() should return error for nonexistent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap os.ErrNotExist", err)
	}
}

func TestLoader_Load_NoFile(t *testing.T) {
	var cfg testConfig
	if err := NewLoader().Load(&cfg); err != nil {
		t.Errorf("Load() without a file should not error, got: %v", err)
	}
}

func TestLoader_Load_Env(t *testing.T) {
	t.Setenv("DEVLOOP_SERVER_POLL_INTERVAL", "150ms")
	t.Setenv("DEVLOOP_LOG_LEVEL", "debug")
	t.Setenv("DEVLOOP_DEBUG", "true")

	var cfg testConfig
	if err := NewLoader().Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.PollInterval != 150*time.Millisecond {
		t.Errorf("PollInterval = %v, want 150ms", cfg.Server.PollInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DEVLOOP_SERVER_PORT", "server.port"},
		{"DEVLOOP_SERVER_SHUTDOWN_GRACE", "server.shutdown_grace"},
		{"DEVLOOP_CLIENT_STOP_TIMEOUT", "client.stop_timeout"},
		{"DEVLOOP_DEBUG", "debug"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in, EnvPrefix); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  host: "from-file"
log:
  level: warn
`)

	t.Setenv("DEVLOOP_SERVER_PORT", "9000")

	l := NewLoader(
		WithConfigFile(path),
		WithOverrides(map[string]any{
			"server.host": "from-flag",
			"log.level":   "",
		}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000 (env should override file)", cfg.Server.Port)
	}
	if cfg.Server.Host != "from-flag" {
		t.Errorf("Host = %q, want from-flag (override should win)", cfg.Server.Host)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want warn (empty override is skipped)", cfg.Log.Level)
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")

	var cfg testConfig
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.PollInterval = 300 * time.Millisecond

	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default kept", cfg.Server.Host)
	}
	if cfg.Server.PollInterval != 300*time.Millisecond {
		t.Errorf("PollInterval = %v, want default kept", cfg.Server.PollInterval)
	}
}

func TestLoader_Load_Duration(t *testing.T) {
	path := writeConfig(t, "server:\n  poll_interval: 2s\n")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.Server.PollInterval)
	}
}

func TestMapProvider(t *testing.T) {
	m := mapProvider{"server.host": "localhost", "debug": true}

	got, err := m.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	server, ok := got["server"].(map[string]any)
	if !ok || server["host"] != "localhost" {
		t.Errorf("Read() = %v, want nested server.host", got)
	}
	if got["debug"] != true {
		t.Errorf("debug = %v, want true", got["debug"])
	}

	if _, err := m.ReadBytes(); err == nil {
		t.Error("ReadBytes() should fail")
	}
}
