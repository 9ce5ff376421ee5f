// Package main is the entry point for the Blendery API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"blendery/internal/core/lock"
	"blendery/internal/domain/auth"
	"blendery/internal/infrastructure/cache"
	"blendery/internal/infrastructure/config"
	v1 "blendery/internal/infrastructure/http/v1"
	"blendery/internal/infrastructure/http/v1/handlers"
	"blendery/internal/infrastructure/migration"
	"blendery/internal/infrastructure/storage/postgres"
	"blendery/migrations"
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

	ctx := context.Background()
	log.Infow("starting blendery server", "env", cfg.App.Env)

	// --- Database ---
	if cfg.App.MigrateOnStart {
		if err := migrate(cfg.Database.DSN, log); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	isolation, err := postgres.ParseIsolation(cfg.Database.Isolation)
	if err != nil {
		log.Fatalw("invalid isolation level", "error", err)
	}
	txOpts := postgres.DefaultTxOptions()
	txOpts.IsolationLevel = isolation
	txOpts.StatementTimeout = cfg.Database.StatementTimeout
	txOpts.MaxRetries = cfg.Database.MaxRetries
	txManager := postgres.NewTxManager(pool, txOpts)

	checks := map[string]handlers.Pinger{"database": pool}

	// --- Redis (optional) ---
	var (
		locker      lock.Locker = lock.Nop{}
		idempotency cache.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer func() { _ = client.Close() }()

		locker = cache.NewRedisLocker(client, cfg.Lock)
		idempotency = redisIdempotency(cfg, client)
		checks["redis"] = cache.HealthCheck{Client: client}
		log.Infow("redis connection established", "addr", cfg.Redis.Addr)
	} else if cfg.Idempotency.Enabled {
		// Single-instance fallback: keys do not survive a restart.
		idempotency = cache.NewMemoryIdempotencyStore(cfg.Idempotency.TTL)
		log.Warn("redis disabled, using in-process idempotency store and no distributed locks")
	}

	// --- Services ---
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})

	services, err := buildServices(txManager, jwtService, locker, cfg.Packaging.Markup)
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}

	// --- Router ---
	mode := "debug"
	if cfg.App.IsProduction() {
		mode = "release"
	}
	router := v1.NewRouter(v1.RouterConfig{
		AppName:        cfg.App.Name,
		Mode:           mode,
		Logger:         log,
		TokenValidator: services.Auth,
		Idempotency:    idempotency,
		HealthChecks:   checks,
		Services:       services,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "mode", mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	postgres.LogPoolStats(ctx, pool)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func redisIdempotency(cfg *config.Config, client *redis.Client) cache.IdempotencyStore {
	if !cfg.Idempotency.Enabled {
		return nil
	}
	return cache.NewRedisIdempotencyStore(client, cfg.Idempotency.TTL)
}

func migrate(dsn string, log *logger.Logger) error {
	m, err := migration.New(migrations.FS, dsn, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
