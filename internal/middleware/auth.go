// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"pagecms/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// CallerKey is the context key for the resolved caller identity.
	CallerKey contextKey = "caller"
)

// CallerResolver turns a bearer token into a caller identity. Unknown or
// expired tokens resolve to nil without error.
type CallerResolver interface {
	Resolve(ctx context.Context, token string) (*models.Caller, error)
}

// LoadCaller resolves the Authorization bearer token and stores the caller
// in the request context. It does NOT enforce authentication — anonymous
// requests continue with a nil caller, and handlers default their
// visibility filters accordingly.
func LoadCaller(resolver CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := resolver.Resolve(r.Context(), bearerToken(r))
			if err != nil {
				// Treat a resolver outage as an anonymous request rather
				// than failing public reads.
				next.ServeHTTP(w, r)
				return
			}

			if caller != nil {
				ctx := context.WithValue(r.Context(), CallerKey, caller)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose caller is missing or not an admin.
// Must be applied after LoadCaller in the middleware chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromCtx(r.Context())
		if !caller.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "Not authorized to access this resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CallerFromCtx extracts the caller from the request context. Returns nil
// for anonymous requests.
func CallerFromCtx(ctx context.Context) *models.Caller {
	caller, _ := ctx.Value(CallerKey).(*models.Caller)
	return caller
}

// bearerToken pulls the token out of the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// writeJSONError emits the standard failure envelope without importing the
// handlers package.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":false,"error":"` + msg + `"}`))
}
