// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API for bilingual page content.
// Every response uses the same envelope: {"success": true, "data": ...}
// with an optional "count" on list responses, or {"success": false,
// "error": ...} on failure.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// envelope is the uniform response shape.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// respond writes a success envelope with the given status.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, envelope{Success: true, Data: data})
}

// respondList writes a success envelope carrying a list and its count.
func respondList(w http.ResponseWriter, r *http.Request, data any, count int) {
	render.JSON(w, r, envelope{Success: true, Data: data, Count: &count})
}

// respondError writes a failure envelope with the given status.
func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, envelope{Success: false, Error: msg})
}

// respondNotFound writes the standard 404 message for an id-addressed miss.
func respondNotFound(w http.ResponseWriter, r *http.Request, entity, id string) {
	respondError(w, r, http.StatusNotFound, fmt.Sprintf("%s not found with id of %s", entity, id))
}

// respondValidation joins per-field messages into one 400 response.
func respondValidation(w http.ResponseWriter, r *http.Request, msgs []string) {
	respondError(w, r, http.StatusBadRequest, strings.Join(msgs, ", "))
}

// respondServerError logs the underlying error and hides it from the client.
func respondServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	respondError(w, r, http.StatusInternalServerError, "Server Error")
}
