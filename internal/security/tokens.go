package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, or has a bad signature.
// Callers get the same error for all three so responses cannot be used to probe tokens.
var ErrInvalidToken = errors.New("invalid token")

// Token types carried in the "type" claim. Every caller must check the decoded
// type against the class it expects; an access token must never be honored
// where a refresh token is required, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims holds the JWT claims for both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

// TokenProvider issues and decodes HS256-signed access and refresh JWTs using
// a process-wide secret. Issuance and decoding are stateless and safe for
// concurrent use.
type TokenProvider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a TokenProvider signing with the given secret.
func NewTokenProvider(secret string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess issues a short-lived access token for the given subject.
func (p *TokenProvider) IssueAccess(subjectID string) (string, error) {
	return p.issue(subjectID, TokenTypeAccess, p.accessTTL)
}

// IssueRefresh issues a long-lived refresh token for the given subject.
// Each call produces a distinct token (random jti), so rotation always
// replaces the previous refresh token with a different one.
func (p *TokenProvider) IssueRefresh(subjectID string) (string, error) {
	return p.issue(subjectID, TokenTypeRefresh, p.refreshTTL)
}

func (p *TokenProvider) issue(subjectID, tokenType string, ttl time.Duration) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(p.secret)
}

// Decode parses and validates a token (signature and expiry) and returns its
// claims. Returns ErrInvalidToken on any failure. It does not check the token
// type; callers must compare Claims.TokenType against the expected class.
func (p *TokenProvider) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
