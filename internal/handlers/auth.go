// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"pagecms/internal/auth"
	"pagecms/internal/models"
	"pagecms/internal/store"
)

// Auth issues and revokes the bearer tokens the API authenticates with.
type Auth struct {
	users  *store.UserStore
	tokens *auth.TokenStore
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, tokens *auth.TokenStore) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type tokenInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token handles POST /api/auth/token: credential check and token issue.
// Missing users and wrong passwords produce the same 401, so the endpoint
// cannot be used to enumerate accounts.
func (h *Auth) Token(w http.ResponseWriter, r *http.Request) {
	var in tokenInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		respondError(w, r, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.users.FindByEmail(email)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, in.Password) {
		respondError(w, r, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := h.tokens.Issue(r.Context(), &models.Caller{
		ID:   user.ID,
		Name: user.DisplayName,
		Role: user.Role,
	})
	if err != nil {
		respondServerError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"role":        user.Role,
		},
	})
}

// Revoke handles DELETE /api/auth/token: invalidates the presented bearer
// token. Revoking an unknown token still succeeds.
func (h *Auth) Revoke(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		respondError(w, r, http.StatusBadRequest, "No bearer token presented.")
		return
	}

	if err := h.tokens.Revoke(r.Context(), token); err != nil {
		respondServerError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"revoked": true})
}
