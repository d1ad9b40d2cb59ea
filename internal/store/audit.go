// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// audit.go records every admin mutation in an append-only trail. Writes are
// best-effort: a failed insert is logged locally and never fails or rolls
// back the mutation it describes.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"pagecms/internal/models"
)

// auditColumns lists all columns for audit_log SELECTs in scan order.
const auditColumns = `id, admin_id, admin_name, action, target_type, target_id,
	page, section_key, description, details, ip_address, user_agent, created_at`

// AuditStore handles the append-only audit trail.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates a new AuditStore with the given database connection.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Record persists an audit entry. On failure it logs a warning and returns;
// callers never see the error.
func (s *AuditStore) Record(e *models.AuditLogEntry) {
	_, err := s.db.Exec(`
		INSERT INTO audit_log (
			admin_id, admin_name, action, target_type, target_id,
			page, section_key, description, details, ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.AdminID, e.AdminName, e.Action, e.TargetType, e.TargetID,
		e.Page, e.SectionKey, e.Description, e.Details, e.IPAddress, e.UserAgent,
	)
	if err != nil {
		slog.Warn("failed to record audit entry",
			"action", e.Action,
			"target_type", e.TargetType,
			"page", e.Page,
			"section_key", e.SectionKey,
			"error", err,
		)
		return
	}
	slog.Debug("audit entry recorded",
		"action", e.Action,
		"target_type", e.TargetType,
		"page", e.Page,
	)
}

// AuditFilter narrows List results. Zero values mean "no filter".
type AuditFilter struct {
	Action     string
	TargetType string
	Page       string
	AdminID    *uuid.UUID
	Limit      int
	Offset     int
}

// DefaultAuditLimit caps unpaginated audit queries.
const DefaultAuditLimit = 50

// List returns audit entries newest first with pagination, plus the total
// number of entries matching the filter.
func (s *AuditStore) List(f AuditFilter) ([]models.AuditLogEntry, int, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Action != "" {
		conds = append(conds, "action = "+arg(f.Action))
	}
	if f.TargetType != "" {
		conds = append(conds, "target_type = "+arg(f.TargetType))
	}
	if f.Page != "" {
		conds = append(conds, "page = "+arg(f.Page))
	}
	if f.AdminID != nil {
		conds = append(conds, "admin_id = "+arg(*f.AdminID))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM audit_log"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit log: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := "SELECT " + auditColumns + " FROM audit_log" + where +
		" ORDER BY created_at DESC LIMIT " + arg(limit) + " OFFSET " + arg(offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(
			&e.ID, &e.AdminID, &e.AdminName, &e.Action, &e.TargetType, &e.TargetID,
			&e.Page, &e.SectionKey, &e.Description, &e.Details,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// Delete removes a single audit entry, the only mutation the trail permits
// after insert. Used for admin retention cleanup. Returns false if the id
// does not resolve.
func (s *AuditStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM audit_log WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete audit entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete audit entry: %w", err)
	}
	return n > 0, nil
}
