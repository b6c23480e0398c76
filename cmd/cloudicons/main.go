// Package main is the entry point for the cloudicons CLI.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/diagramkit/cloudicons/cmd/cloudicons/app"
)

// getLogLevel parses the CLOUDICONS_LOG_LEVEL environment variable and
// returns the corresponding slog.Level. Defaults to slog.LevelInfo if it
// is unset or invalid.
func getLogLevel() slog.Level {
	levelStr := os.Getenv("CLOUDICONS_LOG_LEVEL")

	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("Invalid CLOUDICONS_LOG_LEVEL, using INFO", "value", levelStr)
		return slog.LevelInfo
	}
}

func main() {
	// Structured logging on stderr keeps stdout clean for commands that
	// output data (e.g. version --format json) and the summary table.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: getLogLevel()})
	slog.SetDefault(slog.New(handler))

	if err := app.NewRootCmd().Execute(); err != nil {
		slog.Error("Build failed", "error", err)
		os.Exit(1)
	}
}
