// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SectionType classifies what kind of block a content item renders as.
type SectionType string

const (
	SectionTypeHero        SectionType = "hero"
	SectionTypeFeatureList SectionType = "feature-list"
	SectionTypeText        SectionType = "text"
	SectionTypeCTA         SectionType = "cta"
	SectionTypeStatistics  SectionType = "statistics"
	SectionTypeFooter      SectionType = "footer"
	SectionTypeNavigation  SectionType = "navigation"
	SectionTypeCustom      SectionType = "custom"
)

// Valid reports whether the value is one of the known section types.
func (s SectionType) Valid() bool {
	switch s {
	case SectionTypeHero, SectionTypeFeatureList, SectionTypeText, SectionTypeCTA,
		SectionTypeStatistics, SectionTypeFooter, SectionTypeNavigation, SectionTypeCustom:
		return true
	}
	return false
}

// Layout controls how a section is arranged on the page.
type Layout string

const (
	LayoutDefault     Layout = "default"
	LayoutFullWidth   Layout = "full-width"
	LayoutThreeColumn Layout = "three-column"
	LayoutGrid        Layout = "grid"
)

// Valid reports whether the value is one of the known layouts.
func (l Layout) Valid() bool {
	switch l {
	case LayoutDefault, LayoutFullWidth, LayoutThreeColumn, LayoutGrid:
		return true
	}
	return false
}

// ContentItem is a single block of bilingual page content. Items belong to a
// page (identified by slug) and are unique per (page, section_key).
type ContentItem struct {
	ID          uuid.UUID   `json:"id"`
	Page        string      `json:"page"`
	Section     string      `json:"section"`
	SectionKey  string      `json:"sectionKey"`
	SectionType SectionType `json:"sectionType"`
	Layout      Layout      `json:"layout"`

	// Position is coarse placement on the page; SortOrder breaks ties
	// within the same position.
	Position  int `json:"position"`
	SortOrder int `json:"order"`

	Title          Bilingual     `json:"title"`
	Content        Bilingual     `json:"content"`
	Subtitle       Bilingual     `json:"subtitle"`
	ButtonText     Bilingual     `json:"buttonText"`
	SEOTitle       Bilingual     `json:"seoTitle"`
	SEODescription Bilingual     `json:"seoDescription"`
	SEOKeywords    BilingualList `json:"seoKeywords"`

	ButtonURL string     `json:"buttonUrl"`
	Images    StringList `json:"images"`
	Metadata  Meta       `json:"metadata,omitempty"`

	IsActive            bool `json:"isActive"`
	IsVisible           bool `json:"isVisible"`
	IsRequired          bool `json:"isRequired"`
	HasTamilTranslation bool `json:"hasTamilTranslation"`

	PublishDate    *time.Time `json:"publishDate,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`

	ApprovedBy *uuid.UUID `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`

	Version int `json:"version"`

	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`

	// Display names resolved from the users table on read paths; never
	// written back.
	CreatedByName  *string `json:"createdByName,omitempty"`
	UpdatedByName  *string `json:"updatedByName,omitempty"`
	ApprovedByName *string `json:"approvedByName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VisibleAt reports whether the item is publicly visible at the given
// instant: it must be active and visible, and now must fall inside the
// half-open publication window [publishDate, expirationDate). Open-ended
// bounds are unconstrained.
func (c *ContentItem) VisibleAt(now time.Time) bool {
	if !c.IsActive || !c.IsVisible {
		return false
	}
	if c.PublishDate != nil && c.PublishDate.After(now) {
		return false
	}
	if c.ExpirationDate != nil && !c.ExpirationDate.After(now) {
		return false
	}
	return true
}

// DeriveTamilFlag recomputes HasTamilTranslation from the body-facing
// bilingual fields. SEO fields do not count; the flag marks reader-visible
// translation coverage.
func (c *ContentItem) DeriveTamilFlag() {
	c.HasTamilTranslation = c.Title.HasTamil() ||
		c.Content.HasTamil() ||
		c.Subtitle.HasTamil() ||
		c.ButtonText.HasTamil()
}

// CopyFor returns a duplicate of the item ready for insertion under a new
// identity: fresh record, publication state reset, approval cleared, version
// back to 1, and " (Copy)" appended to non-empty titles.
func (c *ContentItem) CopyFor(page, sectionKey string, createdBy *uuid.UUID) *ContentItem {
	dup := *c
	dup.ID = uuid.Nil
	dup.Page = page
	dup.SectionKey = sectionKey
	dup.IsActive = false
	dup.IsVisible = false
	dup.PublishDate = nil
	dup.ExpirationDate = nil
	dup.ApprovedBy = nil
	dup.ApprovedAt = nil
	dup.Version = 1
	dup.CreatedBy = createdBy
	dup.UpdatedBy = nil
	dup.CreatedByName = nil
	dup.UpdatedByName = nil
	dup.ApprovedByName = nil
	if dup.Title.En != "" {
		dup.Title.En += " (Copy)"
	}
	if dup.Title.Ta != "" {
		dup.Title.Ta += " (Copy)"
	}
	// Slices would otherwise alias the source item's backing arrays.
	dup.Images = append(StringList(nil), c.Images...)
	dup.SEOKeywords = BilingualList{
		En: append([]string(nil), c.SEOKeywords.En...),
		Ta: append([]string(nil), c.SEOKeywords.Ta...),
	}
	return &dup
}

// SectionSummary is the per-section shape embedded in the pages aggregation.
type SectionSummary struct {
	SectionKey  string      `json:"sectionKey"`
	Section     string      `json:"section"`
	Title       Bilingual   `json:"title"`
	Order       int         `json:"order"`
	Position    int         `json:"position"`
	SectionType SectionType `json:"sectionType"`
	Layout      Layout      `json:"layout"`
	IsActive    bool        `json:"isActive"`
	IsVisible   bool        `json:"isVisible"`
}

// PageSummary aggregates every section of one page.
type PageSummary struct {
	Page           string           `json:"page"`
	Sections       []SectionSummary `json:"sections"`
	TotalSections  int              `json:"totalSections"`
	ActiveSections int              `json:"activeSections"`
}
