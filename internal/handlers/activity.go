// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"pagecms/internal/middleware"
	"pagecms/internal/models"
	"pagecms/internal/store"
)

// Activity groups the audit-trail read and retention handlers.
type Activity struct {
	audits *store.AuditStore
}

// NewActivity creates the activity handler group.
func NewActivity(audits *store.AuditStore) *Activity {
	return &Activity{audits: audits}
}

// List handles GET /api/activity. Admins get the filtered, paginated trail;
// any other caller gets an empty array in the same success envelope, so
// probing the endpoint reveals nothing about what it holds.
func (h *Activity) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())
	if !caller.IsAdmin() {
		respondList(w, r, []models.AuditLogEntry{}, 0)
		return
	}

	q := r.URL.Query()
	filter := store.AuditFilter{
		Action:     q.Get("action"),
		TargetType: q.Get("targetType"),
		Page:       q.Get("page"),
		Limit:      parseIntParam(q.Get("limit"), store.DefaultAuditLimit),
		Offset:     parseIntParam(q.Get("offset"), 0),
	}
	if raw := q.Get("adminId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.AdminID = &id
		}
	}

	entries, total, err := h.audits.List(filter)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.AuditLogEntry{}
	}
	respondList(w, r, entries, total)
}

// Delete handles DELETE /api/activity/{id}: single-entry retention cleanup,
// the one mutation the trail allows.
func (h *Activity) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Activity")
	if !ok {
		return
	}

	deleted, err := h.audits.Delete(id)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if !deleted {
		respondNotFound(w, r, "Activity", id.String())
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"id": id})
}
