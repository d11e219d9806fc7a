package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"callgraph/internal/config"
	"callgraph/internal/server"
)

var (
	configPath  = flag.String("config", "./callgraph.toml", "Path to config file")
	historyPath = flag.String("history", "", "Path to the SQLite analysis history (overrides config)")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.2.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("callgraph v%s\n", VERSION)
		os.Exit(0)
	}

	// Stdout carries the MCP stdio transport; logs go to stderr.
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *historyPath != "" {
		cfg.History.Path = *historyPath
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
