package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"speaks/internal/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type discoveryService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewDiscoveryService creates the public discovery query service.
func NewDiscoveryService(eventRepo domain.EventRepository, timeout time.Duration) domain.DiscoveryService {
	return &discoveryService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *discoveryService) DiscoverEvents(ctx context.Context, viewerID string, filters domain.EventFilters, page domain.PageRequest) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if page.Offset < 0 {
		page.Offset = 0
	}
	if page.Limit <= 0 {
		page.Limit = defaultPageLimit
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	if !domain.ValidSortOrder(filters.Sort) {
		filters.Sort = domain.SortDateAsc
	}

	// A failed fetch must stay distinguishable from an empty result: the
	// page is returned empty with HasMore=false alongside the error.
	empty := &domain.EventPage{Events: []*domain.DiscoveredEvent{}, HasMore: false}

	events, err := s.eventRepo.ListDiscoverable(ctx, viewerID, filters, page)
	if err != nil {
		return empty, fmt.Errorf("list discoverable events: %w", err)
	}
	if events == nil {
		events = []*domain.DiscoveredEvent{}
	}
	return &domain.EventPage{
		Events:  events,
		HasMore: len(events) == page.Limit,
	}, nil
}

func (s *discoveryService) GetEvent(ctx context.Context, viewerID, eventID string) (*domain.DiscoveredEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetAnnotatedByID(ctx, eventID, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	// Unverified or non-live events are visible only to their creator.
	if !event.IsVerified || event.Status != domain.StatusLive {
		if viewerID == "" || event.CreatorID != viewerID {
			return nil, domain.ErrNotFound
		}
	}
	return event, nil
}

func (s *discoveryService) ListBookmarkedEvents(ctx context.Context, userID string) ([]*domain.DiscoveredEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	events, err := s.eventRepo.ListBookmarkedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarked events: %w", err)
	}
	if events == nil {
		events = []*domain.DiscoveredEvent{}
	}
	return events, nil
}
