// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"pagecms/internal/cache"
	"pagecms/internal/i18n"
	"pagecms/internal/middleware"
	"pagecms/internal/models"
	"pagecms/internal/slug"
	"pagecms/internal/store"
)

// Pages groups the page-scoped section registry handlers and the pages
// aggregation.
type Pages struct {
	registry *store.SectionStore
	audits   *store.AuditStore
	sections *cache.SectionCache
}

// NewPages creates the pages handler group. sections may be nil when Valkey
// is not configured.
func NewPages(registry *store.SectionStore, audits *store.AuditStore, sections *cache.SectionCache) *Pages {
	return &Pages{registry: registry, audits: audits, sections: sections}
}

func (h *Pages) invalidate(r *http.Request, page string) {
	if h.sections != nil && page != "" {
		h.sections.InvalidatePage(r.Context(), page)
	}
}

// ListPages handles GET /api/pages: every page with its section summaries.
func (h *Pages) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.registry.PagesSummary()
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if pages == nil {
		pages = []models.PageSummary{}
	}
	respondList(w, r, pages, len(pages))
}

// GetPage handles GET /api/pages/{slug}: a page's sections in display order.
// Anonymous responses are served from and written to the section cache;
// authenticated admins bypass it and may request inactive sections too.
func (h *Pages) GetPage(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "slug")
	lang := r.URL.Query().Get("lang")

	caller := middleware.CallerFromCtx(r.Context())
	includeInactive := caller.IsAdmin() && r.URL.Query().Get("includeInactive") == "true"

	cacheable := caller == nil && h.sections != nil
	key := cache.Key(page, lang)
	if cacheable {
		if body, ok := h.sections.Get(r.Context(), key); ok {
			writeCached(w, body)
			return
		}
	}

	items, err := h.registry.ListByPage(page, includeInactive)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if len(items) == 0 {
		respondNotFound(w, r, "Page", page)
		return
	}

	var data any
	if i18n.Supported(lang) {
		projected := make([]map[string]any, 0, len(items))
		for i := range items {
			projected = append(projected, i18n.Project(&items[i], lang))
		}
		data = projected
	} else {
		data = items
	}

	count := len(items)
	body, err := json.Marshal(envelope{Success: true, Data: data, Count: &count})
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if cacheable {
		h.sections.Set(r.Context(), key, body)
	}
	writeCached(w, body)
}

// writeCached writes a pre-serialized success envelope.
func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// CreateSection handles POST /api/pages/{slug}/sections. Unlike the
// page-level upsert this is strict: an existing (page, sectionKey) pair is a
// conflict, not an update.
func (h *Pages) CreateSection(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "slug")

	var in ContentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	in.Page = page
	if msgs := validateSectionInput(&in); len(msgs) > 0 {
		respondValidation(w, r, msgs)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	item := in.newItem(caller)
	if in.Section == "" {
		item.Section = item.SectionKey
	}

	// New sections land after everything already on the page unless the
	// client pinned an order explicitly.
	if in.Order == nil {
		next, err := h.registry.NextOrder(page)
		if err != nil {
			respondServerError(w, r, err)
			return
		}
		item.SortOrder = next
	}

	stored, err := h.registry.Create(item)
	if err != nil {
		if errors.Is(err, store.ErrSectionExists) {
			respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Section '%s' already exists on page '%s'.", item.SectionKey, page))
			return
		}
		respondServerError(w, r, err)
		return
	}

	e := auditEntry(r, models.AuditActionCreate, models.AuditTargetSection)
	e.TargetID = &stored.ID
	e.Page = stored.Page
	e.SectionKey = stored.SectionKey
	e.Description = fmt.Sprintf("Created section '%s' on page '%s'", stored.SectionKey, stored.Page)
	h.audits.Record(e)

	h.invalidate(r, page)
	respond(w, r, http.StatusCreated, stored)
}

// UpdateSection handles PATCH /api/pages/{slug}/sections/{sectionKey}:
// partial merge addressed by composite key. The page itself is pinned by the
// route; only the supplied fields change.
func (h *Pages) UpdateSection(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "slug")
	sectionKey := chi.URLParam(r, "sectionKey")

	existing, err := h.registry.FindByKey(page, sectionKey)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if existing == nil {
		respondNotFound(w, r, "Section", sectionKey)
		return
	}

	var in ContentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	in.Page = ""
	if msgs := validateContentInput(&in, false); len(msgs) > 0 {
		respondValidation(w, r, msgs)
		return
	}

	changed := in.apply(existing)
	if caller := middleware.CallerFromCtx(r.Context()); caller != nil {
		uid := caller.ID
		existing.UpdatedBy = &uid
	}

	stored, err := h.registry.Update(existing)
	if err != nil {
		if errors.Is(err, store.ErrSectionExists) {
			respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Section '%s' already exists on page '%s'.", existing.SectionKey, page))
			return
		}
		respondServerError(w, r, err)
		return
	}
	if stored == nil {
		respondNotFound(w, r, "Section", sectionKey)
		return
	}

	e := auditEntry(r, models.AuditActionEdit, models.AuditTargetSection)
	e.TargetID = &stored.ID
	e.Page = stored.Page
	e.SectionKey = stored.SectionKey
	e.Description = fmt.Sprintf("Updated section '%s' on page '%s'", stored.SectionKey, stored.Page)
	if len(changed) > 0 {
		// Field names only; the trail never stores content bodies.
		e.Details = models.Meta{"fields": changed}
	}
	h.audits.Record(e)

	h.invalidate(r, page)
	respond(w, r, http.StatusOK, stored)
}

// DeleteSection handles DELETE /api/pages/{slug}/sections/{sectionKey}. The
// audit entry snapshots the deleted title, the only place it survives.
func (h *Pages) DeleteSection(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "slug")
	sectionKey := chi.URLParam(r, "sectionKey")

	deleted, err := h.registry.DeleteByKey(page, sectionKey)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if deleted == nil {
		respondNotFound(w, r, "Section", sectionKey)
		return
	}

	e := auditEntry(r, models.AuditActionDelete, models.AuditTargetSection)
	e.TargetID = &deleted.ID
	e.Page = page
	e.SectionKey = sectionKey
	e.Description = fmt.Sprintf("Deleted section '%s' from page '%s'", sectionKey, page)
	e.Details = models.Meta{"title": deleted.Title}
	h.audits.Record(e)

	h.invalidate(r, page)
	respond(w, r, http.StatusOK, deleted)
}

// duplicateSectionInput is the request body for section duplication.
type duplicateSectionInput struct {
	TargetPage    string `json:"targetPage"`
	NewSectionKey string `json:"newSectionKey"`
	Position      *int   `json:"position"`
}

// DuplicateSection handles POST /api/pages/{slug}/sections/{sectionKey}/duplicate.
// The copy lands on targetPage (default: same page) under newSectionKey
// (default: "<sectionKey>-copy"), unpublished.
func (h *Pages) DuplicateSection(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "slug")
	sectionKey := chi.URLParam(r, "sectionKey")

	src, err := h.registry.FindByKey(page, sectionKey)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	if src == nil {
		respondNotFound(w, r, "Section", sectionKey)
		return
	}

	var in duplicateSectionInput
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			respondError(w, r, http.StatusBadRequest, "Invalid JSON body.")
			return
		}
	}
	if in.TargetPage == "" {
		in.TargetPage = page
	}
	if in.NewSectionKey == "" {
		in.NewSectionKey = sectionKey + "-copy"
	}
	var msgs []string
	if !slug.Valid(in.TargetPage) {
		msgs = append(msgs, "Target page must be a lowercase slug (letters, digits, hyphens).")
	}
	if !slug.Valid(in.NewSectionKey) {
		msgs = append(msgs, "New section key must be a lowercase slug (letters, digits, hyphens).")
	}
	if len(msgs) > 0 {
		respondValidation(w, r, msgs)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	var by *uuid.UUID
	if caller != nil {
		uid := caller.ID
		by = &uid
	}

	dup, err := h.registry.Duplicate(src, in.TargetPage, in.NewSectionKey, in.Position, by)
	if err != nil {
		if errors.Is(err, store.ErrSectionExists) {
			respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Section '%s' already exists on page '%s'.", in.NewSectionKey, in.TargetPage))
			return
		}
		respondServerError(w, r, err)
		return
	}

	e := auditEntry(r, models.AuditActionDuplicate, models.AuditTargetSection)
	e.TargetID = &dup.ID
	e.Page = dup.Page
	e.SectionKey = dup.SectionKey
	e.Description = fmt.Sprintf("Duplicated section '%s' of page '%s' as '%s' on page '%s'",
		sectionKey, page, dup.SectionKey, dup.Page)
	e.Details = models.Meta{"sourcePage": page, "sourceSectionKey": sectionKey}
	h.audits.Record(e)

	h.invalidate(r, dup.Page)
	respond(w, r, http.StatusCreated, dup)
}
