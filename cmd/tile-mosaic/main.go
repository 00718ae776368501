package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ironsheep/tile-mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/tile-mosaic-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "",
		"Run the mosaic described by this config file and exit")
	examplePath := flag.String("write-example", "",
		"Write an example config file to this path and exit")
	logLevel := flag.String("log-level", os.Getenv("TILE_MOSAIC_LOG_LEVEL"),
		"Log level: debug, info, warn or error (env TILE_MOSAIC_LOG_LEVEL)")
	logJSON := flag.Bool("log-json", false,
		"Write logs as JSON")
	showVersion := flag.Bool("version", false,
		"Print version information")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "tile-mosaic - build tile mosaics from photos")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage: tile-mosaic [options]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Without --config or --write-example the MCP server runs over stdin/stdout.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("tile-mosaic %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	// Logs go to stderr; stdout is for MCP protocol and reports
	logger := newLogger(*logLevel, *logJSON)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *examplePath); err != nil {
		logger.Error("tile-mosaic failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, examplePath string) error {
	switch {
	case examplePath != "":
		if _, err := mosaic.WriteExampleConfig(examplePath); err != nil {
			return err
		}
		logger.Info("wrote example config", "path", examplePath)
		return nil

	case configPath != "":
		cfg, err := mosaic.LoadConfig(configPath)
		if err != nil {
			return err
		}
		report, err := mosaic.Run(ctx, cfg, logger)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	default:
		logger.Debug("starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)
		server.Version = Version
		err := server.New(server.WithLogger(logger)).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

func newLogger(level string, asJSON bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil || level == "" {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
