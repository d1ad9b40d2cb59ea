// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Languages supported by bilingual fields.
const (
	LangEnglish = "en"
	LangTamil   = "ta"
)

// Bilingual holds the same text in English and Tamil. It is stored as a
// JSONB object so both languages travel together in one column.
type Bilingual struct {
	En string `json:"en"`
	Ta string `json:"ta"`
}

// IsZero reports whether both sides are empty.
func (b Bilingual) IsZero() bool {
	return b.En == "" && b.Ta == ""
}

// HasTamil reports whether the Tamil side carries a non-blank value.
func (b Bilingual) HasTamil() bool {
	return strings.TrimSpace(b.Ta) != ""
}

// Value implements driver.Valuer, serializing to JSONB.
func (b Bilingual) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner, deserializing from JSONB.
func (b *Bilingual) Scan(src any) error {
	return scanJSON(src, b)
}

// BilingualList holds a list of strings per language, used for SEO keywords.
type BilingualList struct {
	En []string `json:"en"`
	Ta []string `json:"ta"`
}

// Value implements driver.Valuer, serializing to JSONB.
func (l BilingualList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner, deserializing from JSONB.
func (l *BilingualList) Scan(src any) error {
	return scanJSON(src, l)
}

// StringList is a plain list of strings stored as a JSONB array.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src any) error {
	return scanJSON(src, s)
}

// Meta is a free-form JSONB payload used for audit details and arbitrary
// section configuration. Keeping it a typed map keeps the contract checkable
// at the interface boundary.
type Meta map[string]any

// Value implements driver.Valuer.
func (m Meta) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]any{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Meta) Scan(src any) error {
	return scanJSON(src, m)
}

// scanJSON decodes a JSONB column into dst, accepting the []byte, string,
// and nil representations the pgx stdlib driver can hand back.
func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("scan jsonb: unsupported type %T", src)
	}
}
