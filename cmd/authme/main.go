// Package main provides the authme CLI, a terminal host for the AuthMe command
// dispatcher.
package main

import (
	"log/slog"
	"os"
)

func main() {
	// Setup structured logging until the root command applies the config
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	Execute()
}
