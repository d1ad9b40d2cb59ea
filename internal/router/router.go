// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain for the page
// content API. Public reads and admin mutations share one /api tree; admin
// sub-trees add the RequireAdmin gate.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pagecms/internal/handlers"
	"pagecms/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(resolver middleware.CallerResolver, auth *handlers.Auth, content *handlers.Content, pages *handlers.Pages, activity *handlers.Activity) chi.Router {
	r := chi.NewRouter()

	// Global middleware. LoadCaller runs before Logger so log lines carry
	// the resolved identity.
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadCaller(resolver))
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Token issue is the only credential-bearing endpoint; brute force
		// gets throttled per client IP.
		r.Group(func(r chi.Router) {
			limiter := middleware.NewRateLimiter(10, time.Minute)
			r.Use(limiter.Middleware)
			r.Post("/auth/token", auth.Token)
		})
		r.Delete("/auth/token", auth.Revoke)

		r.Route("/content", func(r chi.Router) {
			r.Get("/", content.List)

			// Id-addressed operations live under /item so the wildcard
			// does not collide with the {page}/{section} pair below.
			r.Route("/item/{id}", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", content.GetByID)
				r.Put("/", content.Update)
				r.Delete("/", content.Delete)
				r.Put("/approve", content.Approve)
				r.Post("/duplicate", content.Duplicate)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", content.Create)
				r.Put("/reorder", content.Reorder)
			})

			r.Get("/{page}/{section}", content.GetByPageSection)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", pages.ListPages)
			r.Get("/{slug}", pages.GetPage)

			r.Route("/{slug}/sections", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", pages.CreateSection)
				r.Patch("/{sectionKey}", pages.UpdateSection)
				r.Delete("/{sectionKey}", pages.DeleteSection)
				r.Post("/{sectionKey}/duplicate", pages.DuplicateSection)
			})
		})

		r.Route("/activity", func(r chi.Router) {
			r.Get("/", activity.List)
			r.With(middleware.RequireAdmin).Delete("/{id}", activity.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
