// Package middleware provides HTTP middleware for authentication and telemetry.
package middleware

import (
	"context"

	"coffee-shop/backend/internal/account/domain"
)

type contextKey struct{ name string }

var accountKey = contextKey{"account"}

// WithAccount returns a context carrying the authenticated account.
func WithAccount(ctx context.Context, a *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// AccountFrom returns the authenticated account from ctx and true if set.
func AccountFrom(ctx context.Context) (*domain.Account, bool) {
	a, ok := ctx.Value(accountKey).(*domain.Account)
	return a, ok
}
