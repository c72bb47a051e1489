// Package server assembles the HTTP mux and middleware chain.
package server

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"coffee-shop/backend/internal/account/handler"
	"coffee-shop/backend/internal/account/service"
	"coffee-shop/backend/internal/server/middleware"
)

// Routes builds the service mux. Auth-gated routes are wrapped individually
// so the public auth endpoints stay reachable without a token.
func Routes(h *handler.Handler, svc *service.Service) http.Handler {
	auth := middleware.Auth(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signup", h.Signup)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/refresh", h.Refresh)
	mux.HandleFunc("POST /auth/verify", h.Verify)

	mux.Handle("GET /me", auth(http.HandlerFunc(h.Me)))
	mux.Handle("GET /accounts", auth(http.HandlerFunc(h.List)))
	mux.Handle("GET /accounts/{id}", auth(http.HandlerFunc(h.GetByID)))
	mux.Handle("PATCH /accounts/{id}", auth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /accounts/{id}", auth(http.HandlerFunc(h.Delete)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// New constructs the http.Server with telemetry wrapped around every route.
func New(addr string, h *handler.Handler, svc *service.Service, tracer trace.Tracer, meter metric.Meter) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           middleware.Telemetry(tracer, meter)(Routes(h, svc)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
