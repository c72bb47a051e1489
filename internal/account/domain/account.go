package domain

import (
	"errors"
	"time"
)

// Account is the core account entity. PasswordHash is the bcrypt hash, never
// the raw password. VerificationCode is empty once the account is verified.
type Account struct {
	ID               string
	Email            string
	PasswordHash     string
	FirstName        string // optional
	LastName         string // optional
	IsVerified       bool
	VerificationCode string // set while unverified, cleared on verification
	Role             Role
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsAdmin reports whether the account has the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Validate validates the account for persistence. Returns an error describing the first validation failure.
func (a *Account) Validate() error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	if a.Email == "" {
		return errors.New("email is required")
	}
	if a.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	if a.Role != RoleUser && a.Role != RoleAdmin {
		return errors.New("role must be user or admin")
	}
	if a.IsVerified && a.VerificationCode != "" {
		return errors.New("verified account must not carry a verification code")
	}
	return nil
}
