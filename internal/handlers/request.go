// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"pagecms/internal/i18n"
	"pagecms/internal/models"
)

// ContentInput is the request body for creating and patching content items
// and page sections. Bilingual fields accept both the canonical {en, ta}
// object and the flat value + *Tamil companion shape; normalization happens
// here, at the decoding boundary, and nowhere else.
type ContentInput struct {
	Page        string  `json:"page"`
	Section     string  `json:"section"`
	SectionKey  string  `json:"sectionKey"`
	SectionType *string `json:"sectionType"`
	Layout      *string `json:"layout"`
	Position    *int    `json:"position"`
	Order       *int    `json:"order"`

	Title           i18n.Text `json:"title"`
	TitleTamil      string    `json:"titleTamil"`
	Content         i18n.Text `json:"content"`
	ContentTamil    string    `json:"contentTamil"`
	Subtitle        i18n.Text `json:"subtitle"`
	SubtitleTamil   string    `json:"subtitleTamil"`
	ButtonText      i18n.Text `json:"buttonText"`
	ButtonTextTamil string    `json:"buttonTextTamil"`

	SEOTitle       i18n.Text        `json:"seoTitle"`
	SEODescription i18n.Text        `json:"seoDescription"`
	SEOKeywords    i18n.KeywordList `json:"seoKeywords"`

	ButtonURL *string     `json:"buttonUrl"`
	Images    *[]string   `json:"images"`
	Metadata  models.Meta `json:"metadata"`

	IsActive   *bool `json:"isActive"`
	IsVisible  *bool `json:"isVisible"`
	IsRequired *bool `json:"isRequired"`

	PublishDate    *time.Time `json:"publishDate"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

// mergeBilingual folds one bilingual input field into the current value.
// A supplied object replaces the pair; a flat Tamil companion alone only
// replaces the Tamil side. Returns the merged value and whether it changed.
func mergeBilingual(cur models.Bilingual, in i18n.Text, flat string) (models.Bilingual, bool) {
	if in.Set() {
		merged := in.Normalize(flat)
		return merged, merged != cur
	}
	if flat != "" && flat != cur.Ta {
		cur.Ta = flat
		return cur, true
	}
	return cur, false
}

// apply merges the provided fields into the item and returns the JSON names
// of the fields that changed. The audit trail stores these names only,
// never the values, so content bodies stay out of the log.
func (in *ContentInput) apply(c *models.ContentItem) []string {
	var changed []string
	mark := func(name string, did bool) {
		if did {
			changed = append(changed, name)
		}
	}

	if in.Page != "" && in.Page != c.Page {
		c.Page = in.Page
		mark("page", true)
	}
	if in.Section != "" && in.Section != c.Section {
		c.Section = in.Section
		mark("section", true)
	}
	if in.SectionKey != "" && in.SectionKey != c.SectionKey {
		c.SectionKey = in.SectionKey
		mark("sectionKey", true)
	}
	if in.SectionType != nil && models.SectionType(*in.SectionType) != c.SectionType {
		c.SectionType = models.SectionType(*in.SectionType)
		mark("sectionType", true)
	}
	if in.Layout != nil && models.Layout(*in.Layout) != c.Layout {
		c.Layout = models.Layout(*in.Layout)
		mark("layout", true)
	}
	if in.Position != nil && *in.Position != c.Position {
		c.Position = *in.Position
		mark("position", true)
	}
	if in.Order != nil && *in.Order != c.SortOrder {
		c.SortOrder = *in.Order
		mark("order", true)
	}

	var did bool
	c.Title, did = mergeBilingual(c.Title, in.Title, in.TitleTamil)
	mark("title", did)
	c.Content, did = mergeBilingual(c.Content, in.Content, in.ContentTamil)
	mark("content", did)
	c.Subtitle, did = mergeBilingual(c.Subtitle, in.Subtitle, in.SubtitleTamil)
	mark("subtitle", did)
	c.ButtonText, did = mergeBilingual(c.ButtonText, in.ButtonText, in.ButtonTextTamil)
	mark("buttonText", did)
	c.SEOTitle, did = mergeBilingual(c.SEOTitle, in.SEOTitle, "")
	mark("seoTitle", did)
	c.SEODescription, did = mergeBilingual(c.SEODescription, in.SEODescription, "")
	mark("seoDescription", did)

	if in.SEOKeywords.Set() {
		c.SEOKeywords = in.SEOKeywords.BilingualList
		mark("seoKeywords", true)
	}
	if in.ButtonURL != nil && *in.ButtonURL != c.ButtonURL {
		c.ButtonURL = *in.ButtonURL
		mark("buttonUrl", true)
	}
	if in.Images != nil {
		c.Images = models.StringList(*in.Images)
		mark("images", true)
	}
	if in.Metadata != nil {
		c.Metadata = in.Metadata
		mark("metadata", true)
	}
	if in.IsActive != nil && *in.IsActive != c.IsActive {
		c.IsActive = *in.IsActive
		mark("isActive", true)
	}
	if in.IsVisible != nil && *in.IsVisible != c.IsVisible {
		c.IsVisible = *in.IsVisible
		mark("isVisible", true)
	}
	if in.IsRequired != nil && *in.IsRequired != c.IsRequired {
		c.IsRequired = *in.IsRequired
		mark("isRequired", true)
	}
	if in.PublishDate != nil {
		c.PublishDate = in.PublishDate
		mark("publishDate", true)
	}
	if in.ExpirationDate != nil {
		c.ExpirationDate = in.ExpirationDate
		mark("expirationDate", true)
	}

	c.DeriveTamilFlag()
	return changed
}

// newItem builds a fresh content item from the input with the page-level
// creation defaults applied: section "main", a placeholder English title,
// order 1, and immediate visibility.
func (in *ContentInput) newItem(caller *models.Caller) *models.ContentItem {
	c := &models.ContentItem{
		Page:        in.Page,
		Section:     "main",
		SectionType: models.SectionTypeText,
		Layout:      models.LayoutDefault,
		SortOrder:   1,
		IsActive:    true,
		IsVisible:   true,
		Version:     1,
	}
	if caller != nil {
		id := caller.ID
		c.CreatedBy = &id
		c.UpdatedBy = &id
	}
	in.apply(c)
	if c.Section == "" {
		c.Section = "main"
	}
	if c.SectionKey == "" {
		c.SectionKey = c.Section
	}
	if c.Title.IsZero() {
		c.Title = models.Bilingual{En: c.Page + " Content"}
	}
	c.DeriveTamilFlag()
	return c
}

// clientAddr extracts the client address for audit attribution, honoring
// proxy headers the same way the rate limiter does.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
