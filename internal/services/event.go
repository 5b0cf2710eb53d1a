package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"speaks/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates the creator-facing event lifecycle service.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// validateEvent enforces the listing field bounds.
func validateEvent(e *domain.Event, now time.Time) error {
	title := strings.TrimSpace(e.Title)
	if len(title) < 5 || len(title) > 100 {
		return fmt.Errorf("%w: title must be 5-100 characters", domain.ErrInvalidInput)
	}
	desc := strings.TrimSpace(e.Description)
	if len(desc) < 20 || len(desc) > 2000 {
		return fmt.Errorf("%w: description must be 20-2000 characters", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(e.Venue) == "" {
		return fmt.Errorf("%w: venue is required", domain.ErrInvalidInput)
	}
	if !e.DateTime.After(now) {
		return fmt.Errorf("%w: event date must be in the future", domain.ErrInvalidInput)
	}
	if e.MaxParticipants != nil && *e.MaxParticipants < 0 {
		return fmt.Errorf("%w: max_participants must be 0 or greater", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, submit bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.CreatorID == "" {
		return domain.ErrUnauthenticated
	}
	now := time.Now()
	if err := validateEvent(event, now); err != nil {
		return err
	}

	event.Status = domain.StatusDraft
	if submit {
		event.Status = domain.StatusPendingReview
	}
	event.IsVerified = false
	event.CurrentParticipants = 0
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Tags == nil {
		event.Tags = []string{}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// getOwnedEvent loads an event and checks it belongs to creatorID.
func (s *eventService) getOwnedEvent(ctx context.Context, eventID, creatorID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != creatorID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) SubmitForReview(ctx context.Context, eventID, creatorID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, creatorID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(event.Status, domain.StatusPendingReview, domain.ActorCreator) {
		return nil, fmt.Errorf("%w: cannot submit a %s event for review", domain.ErrInvalidInput, event.Status)
	}
	if err := s.eventRepo.SetStatus(ctx, eventID, domain.StatusPendingReview); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	event.Status = domain.StatusPendingReview
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, creatorID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, creatorID)
	if err != nil {
		return nil, err
	}
	// Live listings went through review; edits reopen that gate.
	if event.Status != domain.StatusDraft && event.Status != domain.StatusPendingReview {
		return nil, fmt.Errorf("%w: only draft or pending events can be edited", domain.ErrInvalidInput)
	}
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, creatorID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, eventID, creatorID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(event.Status, domain.StatusCancelled, domain.ActorCreator) {
		return nil, fmt.Errorf("%w: cannot cancel a %s event", domain.ErrInvalidInput, event.Status)
	}
	if err := s.eventRepo.SetStatus(ctx, eventID, domain.StatusCancelled); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	event.Status = domain.StatusCancelled
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, creatorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwnedEvent(ctx, eventID, creatorID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ListMyEvents(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if creatorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	events, err := s.eventRepo.ListByCreatorID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
