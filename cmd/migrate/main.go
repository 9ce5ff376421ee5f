// Package main provides the schema migration CLI.
//
//	migrate [-log-level info] up | down | steps N | version | force V
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"blendery/internal/infrastructure/config"
	"blendery/internal/infrastructure/migration"
	"blendery/migrations"
	"blendery/pkg/logger"
)

func main() {
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: *logLevel, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("BLENDERY_DATABASE_DSN is required")
	}

	m, err := migration.New(migrations.FS, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalw("failed to create migrator", "error", err)
	}
	defer func() { _ = m.Close() }()

	if err := run(m, args); err != nil {
		log.Fatalw("migration command failed", "command", args[0], "error", err)
	}
}

func run(m *migration.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg(args, "steps N")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "force":
		v, err := intArg(args, "force VERSION")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version: %d, dirty: %t\n", version, dirty)
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s", usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[1], err)
	}
	return n, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up             apply all pending migrations
  down           roll back all migrations
  steps N        apply N migrations (negative rolls back)
  version        print the current schema version
  force VERSION  set the version without running migrations

Flags:
  -log-level     debug, info, warn, error (default info)`)
}
