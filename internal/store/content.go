// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagecms/internal/models"
)

// contentColumns lists all columns for content_items SELECTs and RETURNING
// clauses, in scanContent order.
const contentColumns = `id, page, section, section_key, section_type, layout,
	position, sort_order, title, content, subtitle, button_text,
	seo_title, seo_description, seo_keywords, button_url, images, metadata,
	is_active, is_visible, is_required, has_tamil_translation,
	publish_date, expiration_date, approved_by, approved_at, version,
	created_by, updated_by, created_at, updated_at`

// publicVisibleCond is the publication-window predicate applied to every
// non-admin read: active, visible, and now inside [publish_date,
// expiration_date) with open-ended bounds unconstrained.
const publicVisibleCond = `%[1]sis_active = TRUE AND %[1]sis_visible = TRUE
	AND (%[1]spublish_date IS NULL OR %[1]spublish_date <= NOW())
	AND (%[1]sexpiration_date IS NULL OR %[1]sexpiration_date > NOW())`

// aliasColumns prefixes every content column with a table alias for joined
// queries.
func aliasColumns(alias string) string {
	cols := strings.Split(contentColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

// ContentStore owns persistence for content items. All writes that change
// stored order or composite-key identity go through this store or the
// SectionStore in the same package; nothing else touches content_items.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ContentFilter narrows List results. Nil booleans mean "no filter".
// PublicOnly forces the active/visible flags and the publication window
// regardless of the other fields; handlers set it for non-admin callers.
type ContentFilter struct {
	Page       string
	Section    string
	Active     *bool
	Visible    *bool
	PublicOnly bool
}

// scanContent scans a content_items row (without joined names).
func scanContent(scanner interface{ Scan(...any) error }) (*models.ContentItem, error) {
	var c models.ContentItem
	err := scanner.Scan(
		&c.ID, &c.Page, &c.Section, &c.SectionKey, &c.SectionType, &c.Layout,
		&c.Position, &c.SortOrder, &c.Title, &c.Content, &c.Subtitle, &c.ButtonText,
		&c.SEOTitle, &c.SEODescription, &c.SEOKeywords, &c.ButtonURL, &c.Images, &c.Metadata,
		&c.IsActive, &c.IsVisible, &c.IsRequired, &c.HasTamilTranslation,
		&c.PublishDate, &c.ExpirationDate, &c.ApprovedBy, &c.ApprovedAt, &c.Version,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanContentWithNames scans a joined row carrying creator/updater/approver
// display names after the content columns.
func scanContentWithNames(scanner interface{ Scan(...any) error }) (*models.ContentItem, error) {
	var c models.ContentItem
	err := scanner.Scan(
		&c.ID, &c.Page, &c.Section, &c.SectionKey, &c.SectionType, &c.Layout,
		&c.Position, &c.SortOrder, &c.Title, &c.Content, &c.Subtitle, &c.ButtonText,
		&c.SEOTitle, &c.SEODescription, &c.SEOKeywords, &c.ButtonURL, &c.Images, &c.Metadata,
		&c.IsActive, &c.IsVisible, &c.IsRequired, &c.HasTamilTranslation,
		&c.PublishDate, &c.ExpirationDate, &c.ApprovedBy, &c.ApprovedAt, &c.Version,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
		&c.CreatedByName, &c.UpdatedByName, &c.ApprovedByName,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// namedSelect is the joined SELECT resolving the three identity references
// to display names.
const namedSelectFrom = ` FROM content_items c
	LEFT JOIN users cu ON cu.id = c.created_by
	LEFT JOIN users uu ON uu.id = c.updated_by
	LEFT JOIN users au ON au.id = c.approved_by`

func namedSelect() string {
	return "SELECT " + aliasColumns("c") +
		", cu.display_name, uu.display_name, au.display_name" + namedSelectFrom
}

// List returns content items matching the filter, ordered by (sort_order,
// created_at), with creator/updater/approver names resolved.
func (s *ContentStore) List(f ContentFilter) ([]models.ContentItem, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Page != "" {
		conds = append(conds, "c.page = "+arg(f.Page))
	}
	if f.Section != "" {
		conds = append(conds, "c.section = "+arg(f.Section))
	}
	if f.PublicOnly {
		conds = append(conds, fmt.Sprintf(publicVisibleCond, "c."))
	} else {
		if f.Active != nil {
			conds = append(conds, "c.is_active = "+arg(*f.Active))
		}
		if f.Visible != nil {
			conds = append(conds, "c.is_visible = "+arg(*f.Visible))
		}
	}

	query := namedSelect()
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.sort_order ASC, c.created_at ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContentWithNames(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a content item by its UUID with names resolved.
// Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.ContentItem, error) {
	row := s.db.QueryRow(namedSelect()+" WHERE c.id = $1", id)
	c, err := scanContentWithNames(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindByPageSection retrieves a content item by the page-level upsert key
// (page, section). Returns nil if not found.
func (s *ContentStore) FindByPageSection(page, section string) (*models.ContentItem, error) {
	row := s.db.QueryRow(
		"SELECT "+contentColumns+" FROM content_items WHERE page = $1 AND section = $2",
		page, section,
	)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by page/section: %w", err)
	}
	return c, nil
}

// insertContent inserts a content item and returns the stored row. Shared
// by ContentStore and SectionStore so both paths produce identical rows.
func insertContent(db *sql.DB, c *models.ContentItem) (*models.ContentItem, error) {
	row := db.QueryRow(`
		INSERT INTO content_items (
			page, section, section_key, section_type, layout,
			position, sort_order, title, content, subtitle, button_text,
			seo_title, seo_description, seo_keywords, button_url, images, metadata,
			is_active, is_visible, is_required, has_tamil_translation,
			publish_date, expiration_date, version, created_by, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)
		RETURNING `+contentColumns,
		c.Page, c.Section, c.SectionKey, c.SectionType, c.Layout,
		c.Position, c.SortOrder, c.Title, c.Content, c.Subtitle, c.ButtonText,
		c.SEOTitle, c.SEODescription, c.SEOKeywords, c.ButtonURL, c.Images, c.Metadata,
		c.IsActive, c.IsVisible, c.IsRequired, c.HasTamilTranslation,
		c.PublishDate, c.ExpirationDate, c.Version, c.CreatedBy, c.UpdatedBy,
	)
	stored, err := scanContent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSectionExists
		}
		return nil, fmt.Errorf("insert content: %w", err)
	}
	return stored, nil
}

// updateContent writes the full row back, bumping version and updated_at.
// Approval columns are only touched by Approve. If the item is active with
// no publish date yet, the publish date is stamped now.
func updateContent(db *sql.DB, c *models.ContentItem) (*models.ContentItem, error) {
	if c.IsActive && c.PublishDate == nil {
		now := time.Now()
		c.PublishDate = &now
	}

	row := db.QueryRow(`
		UPDATE content_items SET
			page = $1, section = $2, section_key = $3, section_type = $4,
			layout = $5, position = $6, sort_order = $7, title = $8,
			content = $9, subtitle = $10, button_text = $11, seo_title = $12,
			seo_description = $13, seo_keywords = $14, button_url = $15,
			images = $16, metadata = $17, is_active = $18, is_visible = $19,
			is_required = $20, has_tamil_translation = $21, publish_date = $22,
			expiration_date = $23, updated_by = $24,
			version = version + 1, updated_at = NOW()
		WHERE id = $25
		RETURNING `+contentColumns,
		c.Page, c.Section, c.SectionKey, c.SectionType, c.Layout,
		c.Position, c.SortOrder, c.Title, c.Content, c.Subtitle, c.ButtonText,
		c.SEOTitle, c.SEODescription, c.SEOKeywords, c.ButtonURL, c.Images, c.Metadata,
		c.IsActive, c.IsVisible, c.IsRequired, c.HasTamilTranslation,
		c.PublishDate, c.ExpirationDate, c.UpdatedBy, c.ID,
	)
	stored, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSectionExists
		}
		return nil, fmt.Errorf("update content: %w", err)
	}
	return stored, nil
}

// Insert stores a new content item.
func (s *ContentStore) Insert(c *models.ContentItem) (*models.ContentItem, error) {
	return insertContent(s.db, c)
}

// Update writes the merged item back by id. Returns nil if the id no longer
// resolves.
func (s *ContentStore) Update(c *models.ContentItem) (*models.ContentItem, error) {
	return updateContent(s.db, c)
}

// Upsert implements the page-level create-or-update keyed on (page,
// section): repeated admin saves of the same block update the existing row
// instead of inserting a duplicate. Returns the stored item and whether a
// new row was created.
func (s *ContentStore) Upsert(c *models.ContentItem) (*models.ContentItem, bool, error) {
	existing, err := s.FindByPageSection(c.Page, c.Section)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		stored, err := insertContent(s.db, c)
		if err != nil {
			return nil, false, err
		}
		return stored, true, nil
	}

	// Update in place, keeping the original identity and creator.
	c.ID = existing.ID
	c.CreatedBy = existing.CreatedBy
	c.UpdatedBy = orNil(c.UpdatedBy, c.CreatedBy)
	stored, err := updateContent(s.db, c)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// orNil returns the first non-nil uuid pointer.
func orNil(a, b *uuid.UUID) *uuid.UUID {
	if a != nil {
		return a
	}
	return b
}

// Delete removes a content item by ID. Audit entries describing it are left
// in place. Returns false if nothing was deleted.
func (s *ContentStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	return n > 0, nil
}

// Approve records the content-approval workflow gate: stamps the approver
// and approval time, forces the item active, and publishes it immediately.
// Returns nil if the id does not resolve.
func (s *ContentStore) Approve(id, approver uuid.UUID) (*models.ContentItem, error) {
	row := s.db.QueryRow(`
		UPDATE content_items SET
			approved_by = $1, approved_at = NOW(),
			is_active = TRUE, publish_date = NOW(),
			updated_by = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+contentColumns,
		approver, id,
	)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("approve content: %w", err)
	}
	return c, nil
}

// Duplicate clones a content item under a fresh section key on the same
// page with publication state reset. Returns nil if the source id does not
// resolve. A concurrent duplicate racing for the same derived key surfaces
// as ErrSectionExists from the storage constraint.
func (s *ContentStore) Duplicate(id uuid.UUID, caller *uuid.UUID) (*models.ContentItem, error) {
	src, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, nil
	}

	key, err := s.nextCopyKey(src.Page, src.SectionKey)
	if err != nil {
		return nil, err
	}

	return insertContent(s.db, src.CopyFor(src.Page, key, caller))
}

// nextCopyKey derives a free section key for a duplicate: "<key>-copy",
// then "<key>-copy-2" and so on.
func (s *ContentStore) nextCopyKey(page, key string) (string, error) {
	candidate := key + "-copy"
	for i := 2; ; i++ {
		var exists bool
		err := s.db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM content_items WHERE page = $1 AND section_key = $2)`,
			page, candidate,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("probe copy key: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-copy-%d", key, i)
	}
}

// PagesOf returns the distinct pages the given items belong to. The cache
// layer uses it to invalidate every page touched by a reorder batch.
func (s *ContentStore) PagesOf(ids []uuid.UUID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT page FROM content_items WHERE id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("pages of: %w", err)
	}
	defer rows.Close()

	var pages []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("pages of: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// OrderPair assigns a new sort order to one content item.
type OrderPair struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// Reorder applies a batch of order assignments inside a single transaction,
// so a failure mid-batch never leaves a page with mixed old and new
// ordering. Items not listed keep their order. Returns how many rows were
// updated.
func (s *ContentStore) Reorder(pairs []OrderPair) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("reorder begin: %w", err)
	}
	defer tx.Rollback()

	var updated int
	for _, p := range pairs {
		res, err := tx.Exec(
			`UPDATE content_items SET sort_order = $1, version = version + 1, updated_at = NOW() WHERE id = $2`,
			p.Order, p.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("reorder %s: %w", p.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reorder %s: %w", p.ID, err)
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("reorder commit: %w", err)
	}
	return updated, nil
}
