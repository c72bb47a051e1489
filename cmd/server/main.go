package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee-shop/backend/internal/account/handler"
	"coffee-shop/backend/internal/account/repository"
	"coffee-shop/backend/internal/account/service"
	"coffee-shop/backend/internal/config"
	"coffee-shop/backend/internal/db"
	"coffee-shop/backend/internal/notification"
	"coffee-shop/backend/internal/security"
	"coffee-shop/backend/internal/server"
	"coffee-shop/backend/internal/telemetry/otel"
)

const serviceName = "coffee-shop-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	var sender notification.Sender
	if cfg.ResendAPIKey != "" {
		sender = notification.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		sender = notification.NewConsoleSender()
	}

	svc := service.NewService(
		repository.NewPostgresRepository(conn),
		security.NewHasher(cfg.BcryptCost),
		security.NewTokenProvider(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL()),
		sender,
	)

	srv := server.New(
		cfg.HTTPAddr,
		handler.New(svc),
		svc,
		providers.TracerProvider.Tracer(serviceName),
		providers.MeterProvider.Meter(serviceName),
	)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
