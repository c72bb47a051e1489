package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"coffee-shop/backend/internal/account/domain"
)

const bearerPrefix = "bearer "

// Authenticator resolves a bearer access token to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}

// Auth returns middleware that validates the Bearer access token from the
// Authorization header and puts the resolved account in the request context.
// Requests without a valid access token get a uniform 401.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				unauthorized(w)
				return
			}
			account, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// extractBearer returns the Bearer token from the request, or "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": "could not validate credentials"})
}
