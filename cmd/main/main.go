package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calyx-web/calyx/pkg/session"
	"github.com/calyx-web/calyx/pkg/view"
)

// Build-time variables, injected via ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	config, err := LoadConfig("./config.json")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	switch config.Server.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	logger.Info("Starting Calyx", "version", Version, "commit", Commit, "build_date", BuildDate)

	if err = os.MkdirAll(config.Server.DataDir, 0o755); err != nil {
		logger.Error("Failed to create data directory", "error", err)
		os.Exit(1)
	}
	if err = os.MkdirAll(config.View.Dir, 0o755); err != nil {
		logger.Error("Failed to create view directory", "error", err)
		os.Exit(1)
	}

	db, err := initDB(config.Server.SessionDatabasePath)
	if err != nil {
		logger.Error("Failed to open session database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err = session.SetupSchema(db); err != nil {
		logger.Error("Failed to initialize session schema", "error", err)
		os.Exit(1)
	}

	sessions, err := session.NewStore(db, logger, time.Duration(config.Server.SessionTTLHours)*time.Hour)
	if err != nil {
		logger.Error("Failed to create session store", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	engine, err := view.NewEngine(logger, config.View)
	if err != nil {
		logger.Error("Failed to create view engine", "error", err)
		os.Exit(1)
	}

	server := NewServer(config, db, logger, engine, sessions)
	httpServer := &http.Server{
		Addr:              config.Server.ServerAddr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				if _, err := sessions.PurgeExpired(rootCtx); err != nil {
					logger.Error("Session purge failed", "error", err)
				}
			}
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "addr", config.Server.ServerAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Shutdown complete")
}
