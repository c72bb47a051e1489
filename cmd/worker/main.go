// Worker periodically removes unverified accounts older than the retention
// window. Set DATABASE_URL; UNVERIFIED_RETENTION_DAYS and REAPER_INTERVAL
// tune the cutoff and cadence.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"coffee-shop/backend/internal/account/repository"
	"coffee-shop/backend/internal/config"
	"coffee-shop/backend/internal/db"
	"coffee-shop/backend/internal/reaper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: reaping unverified accounts every %s (retention %s)",
		cfg.ReaperTick(), cfg.RetentionWindow())

	r := reaper.New(repository.NewPostgresRepository(conn), cfg.RetentionWindow(), cfg.ReaperTick())
	r.Run(ctx)
	log.Println("worker: stopped")
}
