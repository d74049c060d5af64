package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/sixseat/holdem/internal/client"
	"github.com/sixseat/holdem/internal/game"
)

var CLI struct {
	Seat     int    `arg:"" help:"Seat index to occupy (0-5)"`
	Host     string `short:"H" long:"host" default:"127.0.0.1" help:"Server host"`
	BasePort int    `short:"p" long:"base-port" default:"2201" help:"First of the six seat ports"`
	LogLevel string `short:"l" long:"log-level" default:"info" help:"Log level"`
}

func main() {
	ctx := kong.Parse(&CLI)

	if CLI.Seat < 0 || CLI.Seat >= game.NumSeats {
		fmt.Printf("Seat must be 0-%d, got %d\n", game.NumSeats-1, CLI.Seat)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch CLI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	c, err := client.Dial(CLI.Host, CLI.BasePort, CLI.Seat, logger)
	if err != nil {
		logger.Error("Failed to join", "error", err)
		ctx.Exit(1)
	}
	defer func() { _ = c.Close() }()

	// Commands come from stdin, one per line; EOF switches to the
	// fold-and-leave policy.
	driver := client.NewDriver(c, os.Stdin, logger)
	if err := driver.Run(); err != nil {
		logger.Error("Session ended with error", "error", err)
		ctx.Exit(1)
	}
	logger.Info("Session over")
}
