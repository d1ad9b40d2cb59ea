// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package i18n

import (
	"encoding/json"
	"fmt"
	"strings"

	"pagecms/internal/models"
)

// Text is a request-boundary bilingual value. Clients may send either a
// pre-formed {"en": ..., "ta": ...} object or a bare string, which is taken
// as the English side. A flat companion field (e.g. titleTamil) is merged in
// via Normalize. Everything past the decoding boundary works with the
// canonical models.Bilingual only.
type Text struct {
	models.Bilingual
	set bool
}

// UnmarshalJSON accepts both input shapes.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &t.Bilingual); err != nil {
			return fmt.Errorf("bilingual object: %w", err)
		}
		t.set = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bilingual value: %w", err)
	}
	t.Bilingual = models.Bilingual{En: s}
	t.set = true
	return nil
}

// Set reports whether the client supplied the field at all, which partial
// updates use to distinguish "absent" from "cleared".
func (t Text) Set() bool {
	return t.set
}

// Normalize merges a flat Tamil companion value into the canonical record.
// An explicit ta inside the object wins over the flat field.
func (t Text) Normalize(flatTamil string) models.Bilingual {
	b := t.Bilingual
	if b.Ta == "" && flatTamil != "" {
		b.Ta = flatTamil
	}
	return b
}

// KeywordList is the request-boundary shape for bilingual keyword lists,
// accepting {"en": [...], "ta": [...]} or a bare list taken as English.
type KeywordList struct {
	models.BilingualList
	set bool
}

// UnmarshalJSON accepts both input shapes.
func (k *KeywordList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &k.BilingualList); err != nil {
			return fmt.Errorf("keyword object: %w", err)
		}
		k.set = true
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("keyword list: %w", err)
	}
	k.BilingualList = models.BilingualList{En: list}
	k.set = true
	return nil
}

// Set reports whether the client supplied the field.
func (k KeywordList) Set() bool {
	return k.set
}
