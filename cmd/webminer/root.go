// Package main provides the webminer CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/webminer/config"
)

// NewRootCmd creates the root command for webminer.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webminer",
		Short: "Fetch rendered or raw web pages with a randomized browser identity",
		Long: `webminer retrieves a web page's HTML through one of two strategies:
a lightweight HTTP GET (default) or a fully rendering headless browser
(--render). Both present a plausible desktop identity (weighted-random
user agent, random screen resolution, optional proxy) to the server.

The fetched HTML can be printed as-is, pretty-printed, or reduced to
plain text, outbound links, Markdown, or the main article content.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewFetchCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	cfg := config.Load()
	initLogger(cfg.Log)

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures the process-wide slog handler. Logs go to stderr so
// extracted content on stdout stays pipeable.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
