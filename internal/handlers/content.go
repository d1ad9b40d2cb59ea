// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"pagecms/internal/cache"
	"pagecms/internal/i18n"
	"pagecms/internal/middleware"
	"pagecms/internal/models"
	"pagecms/internal/store"
)

// Content groups the item-level content handlers: the flat list, the
// page-level upsert, and the id-addressed lifecycle operations.
type Content struct {
	items    *store.ContentStore
	audits   *store.AuditStore
	sections *cache.SectionCache
}

// NewContent creates the content handler group. sections may be nil when
// Valkey is not configured; invalidation becomes a no-op.
func NewContent(items *store.ContentStore, audits *store.AuditStore, sections *cache.SectionCache) *Content {
	return &Content{items: items, audits: audits, sections: sections}
}

// auditEntry builds an audit row attributed to the request's caller. Admin
// routes always carry a caller; the resolver ran before any handler.
func auditEntry(r *http.Request, action models.AuditAction, target models.AuditTargetType) *models.AuditLogEntry {
	e := &models.AuditLogEntry{
		Action:     action,
		TargetType: target,
		IPAddress:  clientAddr(r),
		UserAgent:  r.UserAgent(),
	}
	if caller := middleware.CallerFromCtx(r.Context()); caller != nil {
		e.AdminID = caller.ID
		e.AdminName = caller.Name
	}
	return e
}

func (h *Content) invalidate(r *http.Request, page string) {
	if h.sections != nil && page != "" {
		h.sections.InvalidatePage(r.Context(), page)
	}
}

// List handles GET /api/content. Admin callers see every item and may filter
// by active/visible; everyone else gets the public projection only.
func (h *Content) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ContentFilter{
		Page:    q.Get("page"),
		Section: q.Get("section"),
	}

	caller := middleware.CallerFromCtx(r.Context())
	if caller.IsAdmin() {
		filter.Active = parseBoolParam(q.Get("active"))
		filter.Visible = parseBoolParam(q.Get("visible"))
	} else {
		filter.PublicOnly = true
	}

	items, err := h.items.List(filter)
	if err != nil {
		respondServerError(w, r, err)
		return
	}

	lang := q.Get("lang")
	if i18n.Supported(lang) {
		projected := make([]map[string]any, 0, len(items))
		for i := range items {
			projected = append(projected, i18n.Project(&items[i], lang))
		}
		respondList(w, r, projected, len(projected))
		return
	}

	if items == nil {
		items = []models.ContentItem{}
	}
	respondList(w, r, items, len(items))
}

// GetByPageSection handles GET /api/content/{page}/{section}.
func (h *Content) GetByPageSection(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	section := chi.URLParam(r, "section")

	item, err := h.items.FindByPageSection(page, section)
	if err != nil {
		respondServerError(w, r, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	if item != nil && !caller.IsAdmin() && !item.VisibleAt(time.Now()) {
		item = nil
	}
	if item == nil {
		respondNotFound(w, r, "Content", page+"/"+section)
		return
	}

	if lang := r.URL.Query().Get("lang"); i18n.Supported(lang) {
		respond(w, r, http.StatusOK, i18n.Project(item, lang))
		return
	}
	respond(w, r, http.StatusOK, item)
}

// GetByID handles GET /api/content/item/{id}.
func (h *Content) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Content")
	if !ok {
		return
	}

	item, err := h.items.FindByID(id)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if item == nil {
		respondNotFound(w, r, "Content", id.String())
		return
	}
	respond(w, r, http.StatusOK, item)
}

// Create handles POST /api/content: the page-level upsert keyed on
// (page, section). Saving the same block twice updates it in place; the
// response is 201 either way.
func (h *Content) Create(w http.ResponseWriter, r *http.Request) {
	var in ContentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if msgs := validateContentInput(&in, true); len(msgs) > 0 {
		respondValidation(w, r, msgs)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	item := in.newItem(caller)

	stored, created, err := h.items.Upsert(item)
	if err != nil {
		if errors.Is(err, store.ErrSectionExists) {
			respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Section '%s' already exists on page '%s'.", item.SectionKey, item.Page))
			return
		}
		respondServerError(w, r, err)
		return
	}

	action := models.AuditActionCreate
	if !created {
		action = models.AuditActionEdit
	}
	e := auditEntry(r, action, models.AuditTargetContent)
	e.TargetID = &stored.ID
	e.Page = stored.Page
	e.SectionKey = stored.SectionKey
	e.Description = fmt.Sprintf("Saved %s content for page '%s'", stored.Section, stored.Page)
	h.audits.Record(e)

	h.invalidate(r, stored.Page)
	respond(w, r, http.StatusCreated, stored)
}

// Update handles PUT /api/content/item/{id}: partial merge of the supplied
// fields into the stored item.
func (h *Content) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Content")
	if !ok {
		return
	}

	existing, err := h.items.FindByID(id)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if existing == nil {
		respondNotFound(w, r, "Content", id.String())
		return
	}

	var in ContentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if msgs := validateContentInput(&in, false); len(msgs) > 0 {
		respondValidation(w, r, msgs)
		return
	}

	prevPage := existing.Page
	changed := in.apply(existing)
	if caller := middleware.CallerFromCtx(r.Context()); caller != nil {
		uid := caller.ID
		existing.UpdatedBy = &uid
	}

	stored, err := h.items.Update(existing)
	if err != nil {
		if errors.Is(err, store.ErrSectionExists) {
			respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Section '%s' already exists on page '%s'.", existing.SectionKey, existing.Page))
			return
		}
		respondServerError(w, r, err)
		return
	}
	if stored == nil {
		respondNotFound(w, r, "Content", id.String())
		return
	}

	e := auditEntry(r, models.AuditActionEdit, models.AuditTargetContent)
	e.TargetID = &stored.ID
	e.Page = stored.Page
	e.SectionKey = stored.SectionKey
	e.Description = fmt.Sprintf("Updated content '%s' on page '%s'", stored.SectionKey, stored.Page)
	if len(changed) > 0 {
		e.Details = models.Meta{"fields": changed}
	}
	h.audits.Record(e)

	h.invalidate(r, prevPage)
	if stored.Page != prevPage {
		h.invalidate(r, stored.Page)
	}
	respond(w, r, http.StatusOK, stored)
}

// Delete handles DELETE /api/content/item/{id}. Audit entries referencing
// the item stay behind as the only record it existed.
func (h *Content) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Content")
	if !ok {
		return
	}

	existing, err := h.items.FindByID(id)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if existing == nil {
		respondNotFound(w, r, "Content", id.String())
		return
	}

	deleted, err := h.items.Delete(id)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if !deleted {
		respondNotFound(w, r, "Content", id.String())
		return
	}

	e := auditEntry(r, models.AuditActionDelete, models.AuditTargetContent)
	e.TargetID = &id
	e.Page = existing.Page
	e.SectionKey = existing.SectionKey
	e.Description = fmt.Sprintf("Deleted content '%s' from page '%s'", existing.SectionKey, existing.Page)
	e.Details = models.Meta{"title": existing.Title}
	h.audits.Record(e)

	h.invalidate(r, existing.Page)
	respond(w, r, http.StatusOK, existing)
}

// Approve handles PUT /api/content/item/{id}/approve: the editorial gate
// that stamps the approver and publishes the item immediately.
func (h *Content) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Content")
	if !ok {
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	stored, err := h.items.Approve(id, caller.ID)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if stored == nil {
		respondNotFound(w, r, "Content", id.String())
		return
	}

	e := auditEntry(r, models.AuditActionPublish, models.AuditTargetContent)
	e.TargetID = &stored.ID
	e.Page = stored.Page
	e.SectionKey = stored.SectionKey
	e.Description = fmt.Sprintf("Approved and published '%s' on page '%s'", stored.SectionKey, stored.Page)
	h.audits.Record(e)

	h.invalidate(r, stored.Page)
	respond(w, r, http.StatusOK, stored)
}

// Duplicate handles POST /api/content/item/{id}/duplicate: a deep copy on
// the same page under a derived free section key, unpublished.
func (h *Content) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "Content")
	if !ok {
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	var by *uuid.UUID
	if caller != nil {
		uid := caller.ID
		by = &uid
	}

	dup, err := h.items.Duplicate(id, by)
	if err != nil {
		if errors.Is(err, store.ErrSectionExists) {
			respondError(w, r, http.StatusBadRequest, "A copy with the derived section key already exists.")
			return
		}
		respondServerError(w, r, err)
		return
	}
	if dup == nil {
		respondNotFound(w, r, "Content", id.String())
		return
	}

	e := auditEntry(r, models.AuditActionDuplicate, models.AuditTargetContent)
	e.TargetID = &dup.ID
	e.Page = dup.Page
	e.SectionKey = dup.SectionKey
	e.Description = fmt.Sprintf("Duplicated content '%s' as '%s' on page '%s'", id, dup.SectionKey, dup.Page)
	e.Details = models.Meta{"sourceId": id.String()}
	h.audits.Record(e)

	h.invalidate(r, dup.Page)
	respond(w, r, http.StatusCreated, dup)
}

// decodeReorderBatch accepts the canonical {"items": [...]} wrapper and,
// tolerantly, a bare array of assignments.
func decodeReorderBatch(raw []byte) ([]store.OrderPair, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pairs []store.OrderPair
		err := json.Unmarshal(trimmed, &pairs)
		return pairs, err
	}
	var body struct {
		Items []store.OrderPair `json:"items"`
	}
	err := json.Unmarshal(trimmed, &body)
	return body.Items, err
}

// Reorder handles PUT /api/content/reorder: a batch of {id, order}
// assignments applied in one transaction.
func (h *Content) Reorder(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := render.DecodeJSON(r.Body, &raw); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	pairs, err := decodeReorderBatch(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if len(pairs) == 0 {
		respondError(w, r, http.StatusBadRequest, "Reorder batch is empty.")
		return
	}

	ids := make([]uuid.UUID, len(pairs))
	for i, p := range pairs {
		if p.ID == uuid.Nil {
			respondError(w, r, http.StatusBadRequest, "Reorder batch contains an item without an id.")
			return
		}
		ids[i] = p.ID
	}

	// Resolve affected pages before the update; items could be deleted by
	// the time a post-update lookup runs.
	pages, err := h.items.PagesOf(ids)
	if err != nil {
		respondServerError(w, r, err)
		return
	}

	updated, err := h.items.Reorder(pairs)
	if err != nil {
		respondServerError(w, r, err)
		return
	}

	e := auditEntry(r, models.AuditActionReorder, models.AuditTargetContent)
	e.Description = fmt.Sprintf("Reordered %d content items", updated)
	e.Details = models.Meta{"requested": len(pairs), "updated": updated}
	if len(pages) == 1 {
		e.Page = pages[0]
	}
	h.audits.Record(e)

	for _, p := range pages {
		h.invalidate(r, p)
	}
	respond(w, r, http.StatusOK, map[string]any{"updated": updated})
}
