package domain

import (
	"context"
	"time"
)

// Audit log actions recorded for moderation decisions.
const (
	AuditActionApproveEvent = "approve_event"
	AuditActionRejectEvent  = "reject_event"
)

// AuditLog is one recorded admin action. Details is free-form context
// (event title, rejection reason, ...).
// swagger:model AuditLog
type AuditLog struct {
	ID         string         `json:"id"`
	AdminID    string         `json:"admin_id"`
	Action     string         `json:"action"`
	TargetID   string         `json:"target_id"`
	TargetType string         `json:"target_type"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditLogRepository defines storage operations for admin audit logs.
type AuditLogRepository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]*AuditLog, error)
}

// AdminStats is the dashboard summary for administrators.
// swagger:model AdminStats
type AdminStats struct {
	PendingEvents  int `json:"pending_events"`
	TotalUsers     int `json:"total_users"`
	TotalEvents    int `json:"total_events"`
	TotalRSVPs     int `json:"total_rsvps"`
	TotalBookmarks int `json:"total_bookmarks"`
	ActiveEvents   int `json:"active_events"`
}

// AdminService defines the moderation operations. Every method checks that
// the caller holds the admin role and fails with ErrForbidden otherwise.
type AdminService interface {
	// ApproveEvent moves a pending_review event to live and marks it verified.
	ApproveEvent(ctx context.Context, adminID, eventID string) (*Event, error)
	// RejectEvent moves a pending_review event to cancelled with a mandatory
	// non-empty reason.
	RejectEvent(ctx context.Context, adminID, eventID, reason string) (*Event, error)
	ListPendingEvents(ctx context.Context, adminID string) ([]*Event, error)
	GetStats(ctx context.Context, adminID string) (*AdminStats, error)
	ListRecentAuditLogs(ctx context.Context, adminID string, limit int) ([]*AuditLog, error)
}
