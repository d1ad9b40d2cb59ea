// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// section.go is the page-scoped registry over content_items. Unlike the
// page-level upsert in ContentStore, the registry enforces strict
// (page, section_key) uniqueness: a duplicate create is a conflict, never a
// silent overwrite.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pagecms/internal/models"
)

// SectionStore handles registry operations on page sections.
type SectionStore struct {
	db *sql.DB
}

// NewSectionStore creates a new SectionStore with the given database connection.
func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

// FindByKey retrieves a section by its composite key. Returns nil if not found.
func (s *SectionStore) FindByKey(page, sectionKey string) (*models.ContentItem, error) {
	row := s.db.QueryRow(
		"SELECT "+contentColumns+" FROM content_items WHERE page = $1 AND section_key = $2",
		page, sectionKey,
	)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section by key: %w", err)
	}
	return c, nil
}

// NextOrder returns max(sort_order)+1 for a page, so newly created sections
// land after everything already there.
func (s *SectionStore) NextOrder(page string) (int, error) {
	var max int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), 0) FROM content_items WHERE page = $1`,
		page,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("next order: %w", err)
	}
	return max + 1, nil
}

// Create inserts a new section, failing with ErrSectionExists when the
// (page, section_key) pair is already taken. The existence check is
// read-then-write; the unique constraint catches the losing side of a
// concurrent race and reports the same conflict.
func (s *SectionStore) Create(c *models.ContentItem) (*models.ContentItem, error) {
	existing, err := s.FindByKey(c.Page, c.SectionKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSectionExists
	}
	return insertContent(s.db, c)
}

// Update writes a merged section back by id.
func (s *SectionStore) Update(c *models.ContentItem) (*models.ContentItem, error) {
	return updateContent(s.db, c)
}

// DeleteByKey removes a section by composite key, returning the deleted row
// so callers can snapshot its title for the audit trail. Returns nil if the
// key does not resolve.
func (s *SectionStore) DeleteByKey(page, sectionKey string) (*models.ContentItem, error) {
	row := s.db.QueryRow(
		`DELETE FROM content_items WHERE page = $1 AND section_key = $2 RETURNING `+contentColumns,
		page, sectionKey,
	)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete section: %w", err)
	}
	return c, nil
}

// Duplicate copies a section to the target page under a new key with
// publication state reset and order recomputed against the target page.
// Fails with ErrSectionExists when the target key is taken.
func (s *SectionStore) Duplicate(src *models.ContentItem, targetPage, newKey string, position *int, caller *uuid.UUID) (*models.ContentItem, error) {
	existing, err := s.FindByKey(targetPage, newKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSectionExists
	}

	order, err := s.NextOrder(targetPage)
	if err != nil {
		return nil, err
	}

	dup := src.CopyFor(targetPage, newKey, caller)
	dup.SortOrder = order
	if position != nil {
		dup.Position = *position
	}
	return insertContent(s.db, dup)
}

// ListByPage returns a page's sections sorted by (position, sort_order).
// By default only publicly visible sections are returned; includeInactive
// bypasses both the flags and the publication window for admin editing.
func (s *SectionStore) ListByPage(page string, includeInactive bool) ([]models.ContentItem, error) {
	query := "SELECT " + contentColumns + " FROM content_items WHERE page = $1"
	if !includeInactive {
		query += " AND " + fmt.Sprintf(publicVisibleCond, "")
	}
	query += " ORDER BY position ASC, sort_order ASC"

	rows, err := s.db.Query(query, page)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// PagesSummary aggregates every page with its per-section summaries, pages
// sorted by name and sections by (position, sort_order).
func (s *SectionStore) PagesSummary() ([]models.PageSummary, error) {
	rows, err := s.db.Query(`
		SELECT page, section_key, section, title, sort_order, position,
		       section_type, layout, is_active, is_visible
		FROM content_items
		ORDER BY page ASC, position ASC, sort_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("pages summary: %w", err)
	}
	defer rows.Close()

	var pages []models.PageSummary
	var current *models.PageSummary
	for rows.Next() {
		var page string
		var sec models.SectionSummary
		if err := rows.Scan(
			&page, &sec.SectionKey, &sec.Section, &sec.Title, &sec.Order,
			&sec.Position, &sec.SectionType, &sec.Layout, &sec.IsActive, &sec.IsVisible,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}

		if current == nil || current.Page != page {
			pages = append(pages, models.PageSummary{Page: page})
			current = &pages[len(pages)-1]
		}
		current.Sections = append(current.Sections, sec)
		current.TotalSections++
		if sec.IsActive {
			current.ActiveSections++
		}
	}
	return pages, rows.Err()
}
