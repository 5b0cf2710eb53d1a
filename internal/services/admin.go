package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"speaks/internal/domain"
)

type adminService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	bookmarkRepo   domain.BookmarkRepository
	rsvpRepo       domain.RSVPRepository
	auditRepo      domain.AuditLogRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAdminService creates the moderation service.
func NewAdminService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	bookmarkRepo domain.BookmarkRepository,
	rsvpRepo domain.RSVPRepository,
	auditRepo domain.AuditLogRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AdminService {
	return &adminService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		bookmarkRepo:   bookmarkRepo,
		rsvpRepo:       rsvpRepo,
		auditRepo:      auditRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// requireAdmin loads the caller and checks the admin role.
func (s *adminService) requireAdmin(ctx context.Context, adminID string) (*domain.User, error) {
	if adminID == "" {
		return nil, domain.ErrUnauthenticated
	}
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if admin.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return admin, nil
}

func (s *adminService) ApproveEvent(ctx context.Context, adminID, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !domain.CanTransition(event.Status, domain.StatusLive, domain.ActorAdmin) {
		return nil, fmt.Errorf("%w: cannot approve a %s event", domain.ErrInvalidInput, event.Status)
	}
	if err := s.eventRepo.SetModeration(ctx, eventID, domain.StatusLive, true); err != nil {
		return nil, fmt.Errorf("approve event: %w", err)
	}
	event.Status = domain.StatusLive
	event.IsVerified = true

	s.recordAudit(ctx, adminID, domain.AuditActionApproveEvent, event, map[string]any{
		"event_title": event.Title,
		"creator_id":  event.CreatorID,
	})
	s.notifyCreator(ctx, event, "")
	return event, nil
}

func (s *adminService) RejectEvent(ctx context.Context, adminID, eventID, reason string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !domain.CanTransition(event.Status, domain.StatusCancelled, domain.ActorAdmin) {
		return nil, fmt.Errorf("%w: cannot reject a %s event", domain.ErrInvalidInput, event.Status)
	}
	if err := s.eventRepo.SetModeration(ctx, eventID, domain.StatusCancelled, false); err != nil {
		return nil, fmt.Errorf("reject event: %w", err)
	}
	event.Status = domain.StatusCancelled
	event.IsVerified = false

	s.recordAudit(ctx, adminID, domain.AuditActionRejectEvent, event, map[string]any{
		"event_title":      event.Title,
		"creator_id":       event.CreatorID,
		"rejection_reason": reason,
	})
	s.notifyCreator(ctx, event, reason)
	return event, nil
}

// recordAudit writes the audit entry. The moderation decision itself has
// already committed, so an audit failure is logged rather than unwinding it.
func (s *adminService) recordAudit(ctx context.Context, adminID, action string, event *domain.Event, details map[string]any) {
	entry := &domain.AuditLog{
		AdminID:    adminID,
		Action:     action,
		TargetID:   event.ID,
		TargetType: "event",
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "audit log insert failed", "action", action, "event_id", event.ID, "err", err)
	}
}

// notifyCreator emails the event creator about the decision. Best effort.
func (s *adminService) notifyCreator(ctx context.Context, event *domain.Event, reason string) {
	creator, err := s.userRepo.GetByID(ctx, event.CreatorID)
	if err != nil {
		s.logger.WarnContext(ctx, "creator lookup for notification failed", "event_id", event.ID, "err", err)
		return
	}
	data := &domain.EventModerationEmailData{
		Email:       creator.Email,
		CreatorName: creator.Name,
		EventTitle:  event.Title,
		Reason:      reason,
	}
	if reason == "" {
		err = s.emailService.SendEventApproved(ctx, data)
	} else {
		err = s.emailService.SendEventRejected(ctx, data)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "moderation email failed", "event_id", event.ID, "err", err)
	}
}

func (s *adminService) ListPendingEvents(ctx context.Context, adminID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByStatus(ctx, domain.StatusPendingReview)
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *adminService) GetStats(ctx context.Context, adminID string) (*domain.AdminStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	stats := &domain.AdminStats{}
	var err error
	if stats.PendingEvents, err = s.eventRepo.CountByStatus(ctx, domain.StatusPendingReview); err != nil {
		return nil, fmt.Errorf("count pending events: %w", err)
	}
	if stats.ActiveEvents, err = s.eventRepo.CountByStatus(ctx, domain.StatusLive); err != nil {
		return nil, fmt.Errorf("count active events: %w", err)
	}
	if stats.TotalEvents, err = s.eventRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalRSVPs, err = s.rsvpRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	if stats.TotalBookmarks, err = s.bookmarkRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}
	return stats, nil
}

func (s *adminService) ListRecentAuditLogs(ctx context.Context, adminID string, limit int) ([]*domain.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	logs, err := s.auditRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	return logs, nil
}
