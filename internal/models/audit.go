// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names the admin operation an audit entry records.
type AuditAction string

const (
	AuditActionCreate    AuditAction = "create"
	AuditActionEdit      AuditAction = "edit"
	AuditActionDelete    AuditAction = "delete"
	AuditActionDuplicate AuditAction = "duplicate"
	AuditActionReorder   AuditAction = "reorder"
	AuditActionPublish   AuditAction = "publish"
	AuditActionUnpublish AuditAction = "unpublish"
	AuditActionView      AuditAction = "view"
)

// AuditTargetType names the kind of entity an audit entry points at.
type AuditTargetType string

const (
	AuditTargetContent AuditTargetType = "content"
	AuditTargetSection AuditTargetType = "section"
	AuditTargetPage    AuditTargetType = "page"
	AuditTargetMedia   AuditTargetType = "media"
)

// AuditLogEntry is one immutable row in the admin activity trail. Entries
// describe content by id/page/sectionKey without any foreign key, so they
// deliberately outlive the content they reference.
type AuditLogEntry struct {
	ID          uuid.UUID       `json:"id"`
	AdminID     uuid.UUID       `json:"adminId"`
	AdminName   string          `json:"adminName"`
	Action      AuditAction     `json:"action"`
	TargetType  AuditTargetType `json:"targetType"`
	TargetID    *uuid.UUID      `json:"targetId,omitempty"`
	Page        string          `json:"page"`
	SectionKey  string          `json:"sectionKey,omitempty"`
	Description string          `json:"description"`
	Details     Meta            `json:"details,omitempty"`
	IPAddress   string          `json:"ipAddress"`
	UserAgent   string          `json:"userAgent"`
	CreatedAt   time.Time       `json:"createdAt"`
}
