// Package server assembles the portal's HTTP surface: the JSON API under
// /api, the route gate over page requests, and the static file server.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhandler "arc-staff-portal/internal/auth/handler"
	cardhandler "arc-staff-portal/internal/card/handler"
	healthhandler "arc-staff-portal/internal/health/handler"
	"arc-staff-portal/internal/idp"
	recipienthandler "arc-staff-portal/internal/recipient/handler"
	"arc-staff-portal/internal/server/middleware"
)

// Deps holds the handlers and shared services the router mounts.
type Deps struct {
	Provider  idp.Provider
	Auth      *authhandler.Handler
	Recipient *recipienthandler.Handler
	Card      *cardhandler.Handler
	Health    *healthhandler.Handler

	// CORSAllowedOrigins is the browser origin allowlist. Empty disables CORS
	// headers entirely (same-origin deployment).
	CORSAllowedOrigins []string

	// StaticDir serves the portal's built pages. Empty mounts a minimal
	// placeholder so gate redirects still have a target.
	StaticDir string

	// RequestTimeout bounds each request's context, so provider and database
	// calls fail instead of hanging on a stalled backend. Zero means the
	// default of 30 seconds.
	RequestTimeout time.Duration
}

const defaultRequestTimeout = 30 * time.Second

// NewRouter assembles the full HTTP handler.
//
// Route map:
//   - /api/...           → JSON API, gate bypass, per-route auth
//   - everything else    → route gate → static pages
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(middleware.ClientIP)
	r.Use(middleware.Telemetry())
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", deps.Health.Healthz)

		// Credential exchange; no session required.
		api.Post("/login", deps.Auth.Login)
		api.Post("/session-login", deps.Auth.SessionLogin)
		api.Get("/user-session", deps.Auth.UserSession)
		api.Post("/logout", deps.Auth.Logout)
		api.Post("/get-custom-token", deps.Auth.GetCustomToken)
		api.Post("/verify-admin", deps.Auth.VerifyAdmin)
		api.Post("/authorise-staff", deps.Auth.AuthoriseStaff)
		api.Post("/register-staff", deps.Auth.RegisterStaff)

		// Everything below requires a verified session.
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireSession(deps.Provider))

			protected.Post("/create-admin", deps.Auth.CreateAdmin)
			protected.Post("/set-admin", deps.Auth.SetAdminRole)

			protected.Post("/recipients", deps.Recipient.Create)
			protected.Get("/recipients", deps.Recipient.List)
			protected.Get("/recipients/{id}", deps.Recipient.Get)
			protected.Put("/recipients/{id}", deps.Recipient.Update)
			protected.Post("/recipients/{id}/ban", deps.Recipient.Ban)
			protected.Post("/recipients/{id}/unban", deps.Recipient.Unban)

			protected.Post("/cards", deps.Card.Create)
			protected.Get("/recipients/{id}/cards", deps.Card.ListByRecipient)
			protected.Put("/cards/{id}/status", deps.Card.UpdateStatus)
		})
	})

	// Page requests pass the route gate before reaching the static server.
	gate := middleware.NewGate(middleware.NewClassifier(), deps.Provider)
	var pages http.Handler
	if deps.StaticDir != "" {
		pages = http.FileServer(http.Dir(deps.StaticDir))
	} else {
		pages = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	r.NotFound(gate.Handler(pages).ServeHTTP)

	return r
}
