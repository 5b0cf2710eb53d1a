package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"speaks/internal/domain"
)

func adminFixture() (*mockEventRepository, *mockUserRepository, *mockAuditLogRepository, *mockEmailService, domain.AdminService) {
	eventRepo := newMockEventRepository()
	eventRepo.events["e1"] = &domain.Event{
		ID:        "e1",
		Title:     "Berlin Crisis Committee",
		Status:    domain.StatusPendingReview,
		CreatorID: "creator-1",
	}
	userRepo := &mockUserRepository{users: map[string]*domain.User{
		"admin-1":   {ID: "admin-1", Role: domain.RoleAdmin},
		"plain-1":   {ID: "plain-1", Role: domain.RoleUser},
		"creator-1": {ID: "creator-1", Email: "creator@example.com", Name: "Dana"},
	}}
	auditRepo := &mockAuditLogRepository{}
	emails := &mockEmailService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAdminService(eventRepo, userRepo, &mockBookmarkRepository{}, &mockRSVPRepository{}, auditRepo, emails, logger, time.Second)
	return eventRepo, userRepo, auditRepo, emails, svc
}

func TestAdminService_ApproveEvent(t *testing.T) {
	eventRepo, _, auditRepo, emails, svc := adminFixture()

	event, err := svc.ApproveEvent(context.Background(), "admin-1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Status != domain.StatusLive || !event.IsVerified {
		t.Fatalf("got status=%s verified=%v, want live/true", event.Status, event.IsVerified)
	}
	mod := eventRepo.moderationSet["e1"]
	if mod.status != domain.StatusLive || !mod.verified {
		t.Fatalf("moderation not persisted: %+v", mod)
	}
	if len(auditRepo.entries) != 1 || auditRepo.entries[0].Action != domain.AuditActionApproveEvent {
		t.Fatalf("unexpected audit entries: %+v", auditRepo.entries)
	}
	if len(emails.approved) != 1 || emails.approved[0].Email != "creator@example.com" {
		t.Fatalf("creator not notified: %+v", emails.approved)
	}
}

func TestAdminService_ApproveEvent_authorization(t *testing.T) {
	_, _, _, _, svc := adminFixture()

	if _, err := svc.ApproveEvent(context.Background(), "", "e1"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.ApproveEvent(context.Background(), "plain-1", "e1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if _, err := svc.ApproveEvent(context.Background(), "admin-1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestAdminService_ApproveEvent_wrong_state(t *testing.T) {
	eventRepo, _, _, _, svc := adminFixture()
	eventRepo.events["e1"].Status = domain.StatusLive

	if _, err := svc.ApproveEvent(context.Background(), "admin-1", "e1"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestAdminService_RejectEvent(t *testing.T) {
	eventRepo, _, auditRepo, emails, svc := adminFixture()

	event, err := svc.RejectEvent(context.Background(), "admin-1", "e1", "duplicate listing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Status != domain.StatusCancelled || event.IsVerified {
		t.Fatalf("got status=%s verified=%v, want cancelled/false", event.Status, event.IsVerified)
	}
	mod := eventRepo.moderationSet["e1"]
	if mod.status != domain.StatusCancelled || mod.verified {
		t.Fatalf("moderation not persisted: %+v", mod)
	}
	if len(auditRepo.entries) != 1 {
		t.Fatalf("unexpected audit entries: %+v", auditRepo.entries)
	}
	if auditRepo.entries[0].Details["rejection_reason"] != "duplicate listing" {
		t.Fatalf("reason not recorded: %+v", auditRepo.entries[0].Details)
	}
	if len(emails.rejected) != 1 || emails.rejected[0].Reason != "duplicate listing" {
		t.Fatalf("creator not notified with reason: %+v", emails.rejected)
	}
}

func TestAdminService_RejectEvent_requires_reason(t *testing.T) {
	_, _, auditRepo, _, svc := adminFixture()

	if _, err := svc.RejectEvent(context.Background(), "admin-1", "e1", "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if len(auditRepo.entries) != 0 {
		t.Fatal("rejected with blank reason must not be recorded")
	}
}

func TestAdminService_decision_survives_audit_failure(t *testing.T) {
	eventRepo, _, auditRepo, _, svc := adminFixture()
	auditRepo.err = errors.New("mongo down")

	event, err := svc.ApproveEvent(context.Background(), "admin-1", "e1")
	if err != nil {
		t.Fatalf("approval must not fail on audit error: %v", err)
	}
	if event.Status != domain.StatusLive {
		t.Fatalf("got status %s, want live", event.Status)
	}
	if eventRepo.moderationSet["e1"].status != domain.StatusLive {
		t.Fatal("moderation not persisted")
	}
}

func TestAdminService_GetStats(t *testing.T) {
	eventRepo, userRepo, _, _, svc := adminFixture()
	eventRepo.counts = map[domain.EventStatus]int{
		domain.StatusPendingReview: 3,
		domain.StatusLive:          7,
	}
	eventRepo.total = 12
	userRepo.count = 40

	stats, err := svc.GetStats(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PendingEvents != 3 || stats.ActiveEvents != 7 || stats.TotalEvents != 12 || stats.TotalUsers != 40 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if _, err := svc.GetStats(context.Background(), "plain-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestAdminService_ListPendingEvents(t *testing.T) {
	eventRepo, _, _, _, svc := adminFixture()
	eventRepo.byStatus = map[domain.EventStatus][]*domain.Event{
		domain.StatusPendingReview: {{ID: "e1"}, {ID: "e2"}},
	}

	events, err := svc.ListPendingEvents(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestAdminService_ListRecentAuditLogs_clamps_limit(t *testing.T) {
	_, _, auditRepo, _, svc := adminFixture()
	for i := 0; i < 15; i++ {
		auditRepo.entries = append(auditRepo.entries, &domain.AuditLog{Action: domain.AuditActionApproveEvent})
	}

	logs, err := svc.ListRecentAuditLogs(context.Background(), "admin-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 10 {
		t.Fatalf("got %d logs, want default 10", len(logs))
	}
}
