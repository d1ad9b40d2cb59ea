// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// parseID reads the {id} route param as a UUID. A malformed id responds 404
// in the not-found shape; clients cannot tell a bad id from a missing row.
func parseID(w http.ResponseWriter, r *http.Request, entity string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondNotFound(w, r, entity, raw)
		return uuid.Nil, false
	}
	return id, true
}

// parseBoolParam interprets an optional boolean query param; empty or
// unparsable values mean "no filter".
func parseBoolParam(v string) *bool {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// parseIntParam interprets an optional non-negative integer query param,
// returning def when absent or invalid.
func parseIntParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
