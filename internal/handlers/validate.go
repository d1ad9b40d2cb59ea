// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"pagecms/internal/models"
	"pagecms/internal/slug"
)

// Validation limits for content item fields.
const (
	maxPageLen     = 100
	maxKeyLen      = 100
	maxTitleLen    = 300
	maxBodyLen     = 100_000
	maxSubtitleLen = 1_000
	maxButtonLen   = 200
	maxSEOLen      = 500
	maxURLLen      = 2_000
)

func tooLong(b models.Bilingual, max int) bool {
	return utf8.RuneCountInString(b.En) > max || utf8.RuneCountInString(b.Ta) > max
}

// validateContentInput checks a page-level content payload and collects all
// problems so the client sees every failing field at once. requirePage is
// false on partial updates, where an absent page means "leave it alone".
func validateContentInput(in *ContentInput, requirePage bool) []string {
	var errs []string

	page := strings.TrimSpace(in.Page)
	if requirePage && page == "" {
		errs = append(errs, "Page is required.")
	}
	if page != "" && !slug.Valid(page) {
		errs = append(errs, "Page must be a lowercase slug (letters, digits, hyphens).")
	}
	if utf8.RuneCountInString(page) > maxPageLen {
		errs = append(errs, "Page is too long (max 100 characters).")
	}
	if utf8.RuneCountInString(in.Section) > maxKeyLen {
		errs = append(errs, "Section is too long (max 100 characters).")
	}
	if in.SectionKey != "" && !slug.Valid(in.SectionKey) {
		errs = append(errs, "Section key must be a lowercase slug (letters, digits, hyphens).")
	}
	if utf8.RuneCountInString(in.SectionKey) > maxKeyLen {
		errs = append(errs, "Section key is too long (max 100 characters).")
	}
	if in.SectionType != nil && !models.SectionType(*in.SectionType).Valid() {
		errs = append(errs, "Section type is not recognized.")
	}
	if in.Layout != nil && !models.Layout(*in.Layout).Valid() {
		errs = append(errs, "Layout is not recognized.")
	}

	if tooLong(in.Title.Bilingual, maxTitleLen) || utf8.RuneCountInString(in.TitleTamil) > maxTitleLen {
		errs = append(errs, "Title is too long (max 300 characters).")
	}
	if tooLong(in.Content.Bilingual, maxBodyLen) || utf8.RuneCountInString(in.ContentTamil) > maxBodyLen {
		errs = append(errs, "Content is too long (max 100,000 characters).")
	}
	if tooLong(in.Subtitle.Bilingual, maxSubtitleLen) || utf8.RuneCountInString(in.SubtitleTamil) > maxSubtitleLen {
		errs = append(errs, "Subtitle is too long (max 1,000 characters).")
	}
	if tooLong(in.ButtonText.Bilingual, maxButtonLen) || utf8.RuneCountInString(in.ButtonTextTamil) > maxButtonLen {
		errs = append(errs, "Button text is too long (max 200 characters).")
	}
	if tooLong(in.SEOTitle.Bilingual, maxSEOLen) {
		errs = append(errs, "SEO title is too long (max 500 characters).")
	}
	if tooLong(in.SEODescription.Bilingual, maxSEOLen) {
		errs = append(errs, "SEO description is too long (max 500 characters).")
	}
	if in.ButtonURL != nil && utf8.RuneCountInString(*in.ButtonURL) > maxURLLen {
		errs = append(errs, "Button URL is too long (max 2,000 characters).")
	}
	if in.PublishDate != nil && in.ExpirationDate != nil && in.ExpirationDate.Before(*in.PublishDate) {
		errs = append(errs, "Expiration date must be after the publish date.")
	}

	return errs
}

// validateSectionInput checks a section-registry payload, which is stricter
// than the page-level upsert: the section key is mandatory and canonical.
func validateSectionInput(in *ContentInput) []string {
	errs := validateContentInput(in, true)
	if strings.TrimSpace(in.SectionKey) == "" {
		errs = append(errs, "Section key is required.")
	}
	return errs
}
