// Package main is the entry point for the Blendery maintenance worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blendery/internal/infrastructure/config"
	"blendery/internal/infrastructure/storage/postgres"
	"blendery/internal/infrastructure/worker"
	"blendery/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting blendery worker")

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.MaxConns = 4
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool, postgres.DefaultTxOptions())

	jobs := []worker.Job{{
		Name:     "batch-expiry",
		Interval: cfg.Worker.Interval,
		Run:      worker.ExpiringBatches(txm, cfg.Worker.ExpiryWindow, log),
	}}
	if cfg.Worker.AuditRetention > 0 {
		jobs = append(jobs, worker.Job{
			Name:     "audit-retention",
			Interval: cfg.Worker.Interval,
			Run:      worker.AuditRetention(txm, cfg.Worker.AuditRetention, log),
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.NewRunner(log, jobs...).Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	<-done
	log.Info("worker stopped")
}
