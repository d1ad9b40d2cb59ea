// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin and editor account, plus a small set of home page sections so the
// public read path has something to serve.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	users := []struct {
		email, password, name, role string
	}{
		{"admin@pagecms.local", "admin", "Admin", "admin"},
		{"editor@pagecms.local", "editor", "Editor", "editor"},
	}

	var adminID string
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}
		var id string
		err = db.QueryRow(`
			INSERT INTO users (email, password_hash, display_name, role)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, u.email, string(hash), u.name, u.role).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert %s: %w", u.email, err)
		}
		if u.role == "admin" {
			adminID = id
		}
	}

	sections := []struct {
		sectionKey, sectionType, layout string
		position                        int
		title, content                  string
	}{
		{
			sectionKey:  "hero",
			sectionType: "hero",
			layout:      "full-width",
			position:    1,
			title:       `{"en": "Welcome", "ta": "வணக்கம்"}`,
			content:     `{"en": "Serving the community since 1952.", "ta": "1952 முதல் சமூகத்திற்கு சேவை."}`,
		},
		{
			sectionKey:  "about",
			sectionType: "text",
			layout:      "default",
			position:    2,
			title:       `{"en": "About Us", "ta": "எங்களை பற்றி"}`,
			content:     `{"en": "Who we are and what we do."}`,
		},
		{
			sectionKey:  "footer",
			sectionType: "footer",
			layout:      "full-width",
			position:    9,
			title:       `{"en": "Contact"}`,
			content:     `{"en": "Reach us at the office during opening hours."}`,
		},
	}

	for i, s := range sections {
		_, err := db.Exec(`
			INSERT INTO content_items (
				page, section, section_key, section_type, layout,
				position, sort_order, title, content,
				has_tamil_translation, publish_date, created_by, updated_by
			) VALUES ('home', $1, $1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9, $9)
		`, s.sectionKey, s.sectionType, s.layout, s.position, i+1,
			s.title, s.content, i < 2, adminID,
		)
		if err != nil {
			return fmt.Errorf("seed insert section %s: %w", s.sectionKey, err)
		}
	}

	slog.Info("database seeded with default users and home sections",
		"admin", "admin@pagecms.local",
		"editor", "editor@pagecms.local",
	)
	return nil
}
