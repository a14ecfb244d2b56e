package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docgen/internal/config"
	"docgen/internal/logging"
	"docgen/internal/pipeline"
	"docgen/internal/storage"
	"docgen/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(cfg.Validate())

	log, closer, err := logging.New(cfg.LogLevel, os.Stderr, cfg.Path(cfg.LogFile))
	must(err)
	defer closer.Close()

	var (
		journal pipeline.Journal
		store   watcher.Store
	)
	if cfg.JournalEnabled {
		db, err := storage.Open(cfg.JournalFile())
		must(err)
		defer db.Close()
		journal, store = db, db
	}

	runner := pipeline.NewService(cfg, log, journal)
	svc := watcher.NewService(cfg, log, runner, store)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
