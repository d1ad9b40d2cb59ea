// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package i18n implements the read-time language projection that collapses
// bilingual {en, ta} fields to a single language, and the input-boundary
// normalization that canonicalizes the two accepted bilingual input shapes.
package i18n

import (
	"encoding/json"

	"pagecms/internal/models"
)

// bilingualFields are the serialized field names the projector knows how to
// collapse. Fields absent from a record are left alone.
var bilingualFields = []string{
	"title",
	"content",
	"description",
	"subtitle",
	"buttonText",
	"seoTitle",
	"seoDescription",
	"seoKeywords",
}

// Supported reports whether lang is one of the two projection languages.
func Supported(lang string) bool {
	return lang == models.LangEnglish || lang == models.LangTamil
}

// Project serializes a content item and collapses its bilingual fields to
// the requested language. The stored item is never mutated; projection
// operates on a fresh map built from the item's JSON form. An unsupported
// or empty lang returns the record with bilingual objects intact, which is
// what admin editors rely on.
func Project(item *models.ContentItem, lang string) map[string]any {
	record := serialize(item)
	if !Supported(lang) {
		return record
	}
	return ProjectRecord(record, lang)
}

// ProjectRecord collapses the known bilingual fields of an already
// serialized record in place and returns it.
func ProjectRecord(record map[string]any, lang string) map[string]any {
	for _, field := range bilingualFields {
		obj, ok := record[field].(map[string]any)
		if !ok {
			continue
		}
		record[field] = pick(obj, lang)
	}
	return record
}

// pick selects the requested language from a bilingual object, falling back
// to English when the requested side is missing or empty.
func pick(obj map[string]any, lang string) any {
	if v, ok := obj[lang]; ok && !empty(v) {
		return v
	}
	return obj[models.LangEnglish]
}

// empty treats a missing value, blank string, or empty list as absent for
// fallback purposes.
func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// serialize round-trips the item through encoding/json so projection sees
// exactly the shape a response would carry.
func serialize(item *models.ContentItem) map[string]any {
	raw, err := json.Marshal(item)
	if err != nil {
		// A ContentItem is always marshalable; this guards future fields.
		return map[string]any{}
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return map[string]any{}
	}
	return record
}
