// Package handler exposes the account lifecycle over a thin HTTP JSON surface.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"coffee-shop/backend/internal/account/domain"
	"coffee-shop/backend/internal/account/service"
	"coffee-shop/backend/internal/platform/rbac"
	"coffee-shop/backend/internal/server/middleware"
)

const defaultListLimit = 100

// Handler wraps the account service 1:1; it owns no business rules beyond
// request decoding and the admin gate on list/get-by-id.
type Handler struct {
	svc *service.Service
}

// New returns a Handler over the given service.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type updateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// accountResponse is the public account shape; it never carries the password
// hash or the verification code.
type accountResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	IsVerified bool      `json:"is_verified"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type listResponse struct {
	Accounts []accountResponse `json:"accounts"`
	Total    int64             `json:"total"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		IsVerified: a.IsVerified,
		Role:       string(a.Role),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password are required")
		return
	}
	account, err := h.svc.Signup(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// Verify handles POST /auth/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account, err := h.svc.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// List handles GET /accounts (admin only).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.AccountFrom(r.Context())
	if _, err := rbac.RequireAdmin(actor); err != nil {
		writeError(w, r, err)
		return
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", defaultListLimit)
	accounts, total, err := h.svc.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := listResponse{Accounts: make([]accountResponse, 0, len(accounts)), Total: total}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetByID handles GET /accounts/{id} (admin only).
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.AccountFrom(r.Context())
	if _, err := rbac.RequireAdmin(actor); err != nil {
		writeError(w, r, err)
		return
	}
	account, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// Update handles PATCH /accounts/{id} (owner or admin).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.AccountFrom(r.Context())
	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account, err := h.svc.UpdateProfile(r.Context(), actor, r.PathValue("id"), service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// Delete handles DELETE /accounts/{id} (admin only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.AccountFrom(r.Context())
	if err := h.svc.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps service and rbac sentinel errors to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrSelfDelete):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUnauthorized):
		writeDetail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, rbac.ErrForbidden):
		writeDetail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
