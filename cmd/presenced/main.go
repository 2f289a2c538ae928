package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensorlog/presenced/internal/api"
	"github.com/sensorlog/presenced/internal/config"
	"github.com/sensorlog/presenced/internal/ingest"
	"github.com/sensorlog/presenced/internal/roster"
	"github.com/sensorlog/presenced/internal/transport"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	cfgPath := flag.String("config", "configs/presenced.yaml", "Path to YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Roster store ──────────────────────────────────────────────────────────
	var store roster.Store
	if cfg.Storage.Path != "" {
		store, err = roster.OpenSQLite(cfg.Storage.Path, logger)
		if err != nil {
			slog.Error("failed to open roster database", "err", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("no storage path configured, roster is in-memory only")
		store = roster.NewMemoryStore()
	}

	// ── Ingest loop ───────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ing := ingest.New(ingest.Config{
		Transport: transport.NewSerial(),
		Store:     store,
		Loader:    loader,
		Logger:    logger,
		Backoff:   cfg.Device.Backoff(),
		Settle:    cfg.Device.Settle(),
	})
	ingestDone := make(chan struct{})
	go func() {
		ing.Run(ctx)
		close(ingestDone)
	}()

	// ── Config hot reload ─────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		slog.Info("config reloaded, device settings apply at next reconnect",
			"path", newCfg.Device.Path, "baud", newCfg.Device.Baud)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}
	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      api.New(store, ing),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop the ingest loop
	<-ingestDone
	if err := store.Close(); err != nil {
		slog.Error("store close error", "err", err)
	}
	slog.Info("goodbye")
}
