// Package service implements the account lifecycle: signup, login, token
// refresh, email verification, profile updates, and deletion.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"coffee-shop/backend/internal/account/domain"
	"coffee-shop/backend/internal/account/repository"
	"coffee-shop/backend/internal/notification"
	"coffee-shop/backend/internal/platform/rbac"
	"coffee-shop/backend/internal/security"
	"coffee-shop/backend/internal/verification"
)

// Sentinel errors for the account lifecycle; the handler maps them to HTTP statuses.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so the
	// response cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInvalidToken is returned by Refresh for a bad, expired, or wrong-type token.
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrUnauthorized is returned by Authenticate for any failure validating an access token.
	ErrUnauthorized    = errors.New("could not validate credentials")
	ErrNotFound        = errors.New("account not found")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrSelfDelete      = errors.New("cannot delete your own account")
)

// TokenPair is an access/refresh token pair returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProfileUpdate carries a partial profile update. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// Service orchestrates account lifecycle operations over the repository,
// hasher, token provider, and notification sink.
type Service struct {
	repo   repository.Repository
	hasher *security.Hasher
	tokens *security.TokenProvider
	sender notification.Sender
}

// NewService returns a Service with the given dependencies.
func NewService(repo repository.Repository, hasher *security.Hasher, tokens *security.TokenProvider, sender notification.Sender) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		sender: sender,
	}
}

// Signup registers a new unverified account and dispatches its verification
// code to the notification sink. Returns ErrEmailAlreadyRegistered when the
// email is taken; the check is the store's unique constraint, so concurrent
// duplicate signups cannot both succeed.
func (s *Service) Signup(ctx context.Context, email, password, firstName, lastName string) (*domain.Account, error) {
	email = normalizeEmail(email)

	code, err := verification.GenerateCode()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:               uuid.New().String(),
		Email:            email,
		PasswordHash:     hash,
		FirstName:        strings.TrimSpace(firstName),
		LastName:         strings.TrimSpace(lastName),
		IsVerified:       false,
		VerificationCode: code,
		Role:             domain.RoleUser,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	// Delivery is best-effort; a failed send does not roll back the signup.
	if err := s.sender.Send(ctx, email, code); err != nil {
		slog.WarnContext(ctx, "verification code delivery failed", "email", email, "err", err)
	}
	return account, nil
}

// Login authenticates by email and password and issues a fresh token pair.
// Verification is not required to log in. Unknown email and wrong password
// return the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil || !s.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issuePair(account.ID)
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
// Both tokens are rotated, so a leaked refresh token is usable at most once
// before its holder and the legitimate client diverge.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != security.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	account, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidToken
	}
	return s.issuePair(account.ID)
}

// VerifyEmail marks the account verified when the provided code matches the
// stored one, clearing the code. Verification is one-way: a verified account
// stays verified.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*domain.Account, error) {
	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	if account.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if !verification.ValidateCode(account.VerificationCode, code) {
		return nil, ErrInvalidCode
	}
	account.IsVerified = true
	account.VerificationCode = ""
	account.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// UpdateProfile applies a partial update to the target account. The actor must
// be the target or an admin. Only non-nil fields change; a supplied password
// is re-hashed, never stored raw.
func (s *Service) UpdateProfile(ctx context.Context, actor *domain.Account, targetID string, upd ProfileUpdate) (*domain.Account, error) {
	if !rbac.CanModify(actor, targetID) {
		return nil, rbac.ErrForbidden
	}
	account, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	if upd.FirstName != nil {
		account.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		account.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Password != nil {
		hash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}
	account.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// Delete permanently removes the target account. Admin only, and an admin
// cannot delete their own account.
func (s *Service) Delete(ctx context.Context, actor *domain.Account, targetID string) error {
	if _, err := rbac.RequireAdmin(actor); err != nil {
		return err
	}
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	if target.ID == actor.ID {
		return ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Authenticate resolves a bearer access token to its account. Any failure
// (bad signature, expiry, wrong token type, or a deleted account) returns
// ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.TokenType != security.TokenTypeAccess {
		return nil, ErrUnauthorized
	}
	account, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnauthorized
	}
	return account, nil
}

// GetByID returns the account for id, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

// List returns accounts ordered by id ascending plus the total count.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*domain.Account, int64, error) {
	accounts, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (s *Service) issuePair(accountID string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(accountID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(accountID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
