package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 2201, cfg.Server.BasePort)
	assert.Equal(t, 100, cfg.Server.StartingStack)
	assert.Equal(t, int64(0), cfg.Server.Seed)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Nil(t, cfg.Observer)
	assert.Equal(t, time.Duration(0), cfg.ReadyTimeout())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := writeConfig(t, `
server {
  host                  = "127.0.0.1"
  base_port             = 3301
  starting_stack        = 500
  seed                  = 42
  log_level             = "debug"
  ready_timeout_seconds = 30
}

observer {
  addr = "127.0.0.1:8080"
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 3301, cfg.Server.BasePort)
	assert.Equal(t, 500, cfg.Server.StartingStack)
	assert.Equal(t, int64(42), cfg.Server.Seed)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ReadyTimeout())
	require.NotNil(t, cfg.Observer)
	assert.Equal(t, "127.0.0.1:8080", cfg.Observer.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigPartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
server {
  seed = 7
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Server.Seed)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 2201, cfg.Server.BasePort)
	assert.Equal(t, 100, cfg.Server.StartingStack)
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, `server { host = `)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"base port zero", func(c *Config) { c.Server.BasePort = 0 }, false},
		{"base port leaves no room for six seats", func(c *Config) { c.Server.BasePort = 65533 }, false},
		{"highest workable base port", func(c *Config) { c.Server.BasePort = 65535 - NumSeats }, true},
		{"zero stack", func(c *Config) { c.Server.StartingStack = 0 }, false},
		{"negative timeout", func(c *Config) { c.Server.ReadyTimeoutSeconds = -1 }, false},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, false},
		{"observer without addr", func(c *Config) { c.Observer = &ObserverConfig{} }, false},
		{"observer with addr", func(c *Config) { c.Observer = &ObserverConfig{Addr: ":8080"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
