package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/salespipe/salespipe/internal/config"
	"github.com/salespipe/salespipe/internal/core"
	"github.com/salespipe/salespipe/internal/logging"
	"github.com/salespipe/salespipe/internal/store"
	"github.com/salespipe/salespipe/internal/web"
)

func main() {
	// Load .env if present (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"db_max_conns", cfg.Database.MaxConns,
		"source", cfg.Load.SourcePath,
		"export_dir", cfg.Export.Dir,
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	recordStore, err := store.NewPostgres(ctx, pool)
	if err != nil {
		slog.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}

	// Bulk load runs to completion before the first request is accepted.
	// An unreadable source degrades to an empty store instead of aborting.
	loaded, err := core.LoadFromFile(ctx, recordStore, cfg.Load.SourcePath)
	if err != nil {
		slog.Error("bulk load failed, starting with empty store", "error", err)
		if err := recordStore.ReplaceAll(ctx, nil); err != nil {
			slog.Error("failed to empty store", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("bulk load complete", "records", loaded)
	}

	service := core.NewService(recordStore)
	exporter := core.NewExporter(recordStore, cfg.Export.Dir, cfg.Export.Prefix)
	server := web.NewServer(service, exporter, cfg, pool.Ping)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
