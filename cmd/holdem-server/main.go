package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/sixseat/holdem/internal/server"
)

var CLI struct {
	Seed     *int64 `arg:"" optional:"" help:"Deterministic shuffle seed (overrides config)"`
	Config   string `short:"c" long:"config" default:"holdem.hcl" help:"Path to HCL configuration file"`
	Host     string `long:"host" help:"Address to bind the seat listeners to (overrides config)"`
	BasePort int    `short:"p" long:"base-port" help:"First of the six seat ports (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Observer string `long:"observer" help:"Websocket spectator feed address (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Seed != nil {
		cfg.Server.Seed = *CLI.Seed
	}
	if CLI.Host != "" {
		cfg.Server.Host = CLI.Host
	}
	if CLI.BasePort != 0 {
		cfg.Server.BasePort = CLI.BasePort
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Observer != "" {
		cfg.Observer = &server.ObserverConfig{Addr: CLI.Observer}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting holdem server",
		"host", cfg.Server.Host,
		"basePort", cfg.Server.BasePort,
		"startingStack", cfg.Server.StartingStack,
		"seed", cfg.Server.Seed)

	srv := server.New(cfg, logger, quartz.NewReal())
	if err := srv.Listen(); err != nil {
		logger.Error("Failed to listen", "error", err)
		ctx.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil && runCtx.Err() == nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
	logger.Info("Table closed")
}
