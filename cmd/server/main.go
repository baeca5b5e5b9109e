package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catering/config"
	"catering/database"
	"catering/pkg/logger"
)

func main() {
	// 1) Config
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "error", err)
	}

	// 2) DB + automigrate
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("open database", "error", err)
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal("seed admin", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3) Echo + routes
	e, err := build(ctx, cfg, log, db)
	if err != nil {
		log.Fatal("wire server", "error", err)
	}

	// 4) Start
	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", "error", err)
		}
	}()
	<-ctx.Done()

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.Error("shutdown", "error", err)
	}
}
