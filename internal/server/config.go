package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server   Settings        `hcl:"server,block"`
	Observer *ObserverConfig `hcl:"observer,block"`
}

// Settings contains the table-level configuration.
type Settings struct {
	Host                string `hcl:"host,optional"`
	BasePort            int    `hcl:"base_port,optional"`
	StartingStack       int    `hcl:"starting_stack,optional"`
	Seed                int64  `hcl:"seed,optional"`
	LogLevel            string `hcl:"log_level,optional"`
	ReadyTimeoutSeconds int    `hcl:"ready_timeout_seconds,optional"`
}

// ObserverConfig enables the websocket spectator feed when present.
type ObserverConfig struct {
	Addr string `hcl:"addr"`
}

// ReadyTimeout returns the between-hand ready-collection timeout; zero
// means wait forever.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.Server.ReadyTimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: Settings{
			Host:          "0.0.0.0",
			BasePort:      2201,
			StartingStack: 100,
			Seed:          0,
			LogLevel:      "info",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to the
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %s", filename, diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %s", filename, diags.Error())
	}

	def := DefaultConfig()
	if config.Server.Host == "" {
		config.Server.Host = def.Server.Host
	}
	if config.Server.BasePort == 0 {
		config.Server.BasePort = def.Server.BasePort
	}
	if config.Server.StartingStack == 0 {
		config.Server.StartingStack = def.Server.StartingStack
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = def.Server.LogLevel
	}

	return &config, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.BasePort < 1 || c.Server.BasePort > 65535-NumSeats {
		return fmt.Errorf("invalid base port %d: need %d consecutive ports", c.Server.BasePort, NumSeats)
	}
	if c.Server.StartingStack <= 0 {
		return fmt.Errorf("starting stack must be positive, got %d", c.Server.StartingStack)
	}
	if c.Server.ReadyTimeoutSeconds < 0 {
		return fmt.Errorf("ready timeout must not be negative, got %d", c.Server.ReadyTimeoutSeconds)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Server.LogLevel)
	}
	if c.Observer != nil && c.Observer.Addr == "" {
		return fmt.Errorf("observer block requires an addr")
	}
	return nil
}
