package repository

import (
	"context"
	"errors"
	"time"

	"coffee-shop/backend/internal/account/domain"
)

// Sentinel errors surfaced by repository implementations.
var (
	// ErrDuplicateEmail is returned by Create when the email is already taken.
	// Backed by the unique constraint, so a concurrent duplicate insert fails
	// here rather than producing a second row.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned by Update and Delete when no row matches.
	ErrNotFound = errors.New("account not found")
)

// Repository defines persistence for accounts.
type Repository interface {
	// GetByID returns the account for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByEmail returns the account with the given email, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// List returns accounts ordered by id ascending.
	List(ctx context.Context, offset, limit int) ([]*domain.Account, error)
	// Count returns the total number of accounts.
	Count(ctx context.Context) (int64, error)
	// Create persists a new account. Returns ErrDuplicateEmail if the email exists.
	Create(ctx context.Context, a *domain.Account) error
	// Update persists all mutable fields of the account. Returns ErrNotFound if no row matches.
	Update(ctx context.Context, a *domain.Account) error
	// Delete removes the account permanently. Returns ErrNotFound if no row matches.
	Delete(ctx context.Context, id string) error
	// DeleteUnverifiedBefore removes every unverified account created before
	// cutoff and returns how many were removed. Runs as a single statement, so
	// an account verified after cutoff was computed is re-checked at delete
	// time and survives.
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
