// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the admin user (admin@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"coffee-shop/backend/internal/account/domain"
	"coffee-shop/backend/internal/account/repository"
	"coffee-shop/backend/internal/config"
	"coffee-shop/backend/internal/db"
	"coffee-shop/backend/internal/security"
	"coffee-shop/backend/internal/verification"
)

const (
	adminEmail  = "admin@example.com"
	userEmail   = "user@example.com"
	devPassword = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := repository.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := repo.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	if err := repo.Create(ctx, &domain.Account{
		ID:           uuid.NewString(),
		Email:        adminEmail,
		PasswordHash: passwordHash,
		FirstName:    "Admin",
		IsVerified:   true,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create admin: %v", err)
	}

	code, err := verification.GenerateCode()
	if err != nil {
		log.Fatalf("generate code: %v", err)
	}
	if err := repo.Create(ctx, &domain.Account{
		ID:               uuid.NewString(),
		Email:            userEmail,
		PasswordHash:     passwordHash,
		FirstName:        "Sample",
		LastName:         "User",
		VerificationCode: code,
		Role:             domain.RoleUser,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		log.Fatalf("create sample user: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Admin login: %s / %s\n", adminEmail, devPassword)
	fmt.Printf("User login: %s / %s (unverified, code %s)\n", userEmail, devPassword, code)
}
