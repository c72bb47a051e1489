// Package rbac holds the role and ownership checks gating account operations.
package rbac

import (
	"errors"
	"fmt"

	"coffee-shop/backend/internal/account/domain"
)

// ErrForbidden is returned when the actor lacks the role or ownership an
// operation requires. Handlers map it to 403.
var ErrForbidden = errors.New("forbidden")

// RequireAdmin returns the account if it has the admin role.
func RequireAdmin(a *domain.Account) (*domain.Account, error) {
	if a == nil || !a.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privileges required", ErrForbidden)
	}
	return a, nil
}

// RequireVerified returns the account if its email is verified. Not currently
// wired into any lifecycle operation; available for composition.
func RequireVerified(a *domain.Account) (*domain.Account, error) {
	if a == nil || !a.IsVerified {
		return nil, fmt.Errorf("%w: email verification required", ErrForbidden)
	}
	return a, nil
}

// CanModify reports whether actor may mutate the account identified by
// targetID. Admins may modify anyone; everyone else only themselves.
func CanModify(actor *domain.Account, targetID string) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == targetID
}
