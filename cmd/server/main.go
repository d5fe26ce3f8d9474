package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gravitas-games/nectar/internal/config"
	"github.com/gravitas-games/nectar/internal/history"
	"github.com/gravitas-games/nectar/internal/server"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		slog.Error("failed to load configuration", "path", configPath, "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting nectar server", "config", configPath, "addr", cfg.Addr())

	var ledger *history.Store
	if cfg.History.Path != "" {
		ledger, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Error("failed to open history", "path", cfg.History.Path, "err", err)
			os.Exit(1)
		}
		defer ledger.Close()
	}

	srv, err := server.New(cfg, ledger, logger)
	if err != nil {
		logger.Error("failed to create server", "err", err)
		os.Exit(1)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Addr()); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Error("server error", "err", err)
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	if err := srv.Shutdown(); err != nil {
		logger.Error("error during shutdown", "err", err)
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
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
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
