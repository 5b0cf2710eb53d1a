package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"speaks/internal/domain"
)

type interactionService struct {
	eventRepo      domain.EventRepository
	bookmarkRepo   domain.BookmarkRepository
	rsvpRepo       domain.RSVPRepository
	followRepo     domain.FollowRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewInteractionService creates the bookmark/RSVP/follow toggle service.
func NewInteractionService(
	eventRepo domain.EventRepository,
	bookmarkRepo domain.BookmarkRepository,
	rsvpRepo domain.RSVPRepository,
	followRepo domain.FollowRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.InteractionService {
	return &interactionService{
		eventRepo:      eventRepo,
		bookmarkRepo:   bookmarkRepo,
		rsvpRepo:       rsvpRepo,
		followRepo:     followRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *interactionService) ToggleBookmark(ctx context.Context, userID, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return false, domain.ErrUnauthenticated
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get event: %w", err)
	}

	exists, err := s.bookmarkRepo.Exists(ctx, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	if exists {
		// A concurrent removal makes Remove a no-op; either way the
		// authoritative state is "not bookmarked".
		if _, err := s.bookmarkRepo.Remove(ctx, userID, eventID); err != nil {
			return false, fmt.Errorf("remove bookmark: %w", err)
		}
		return false, nil
	}
	if _, err := s.bookmarkRepo.Add(ctx, userID, eventID); err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	return true, nil
}

func (s *interactionService) ToggleRSVP(ctx context.Context, userID, eventID string) (*string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	_, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, userID)
	switch {
	case err == nil:
		if _, err := s.rsvpRepo.Remove(ctx, userID, eventID); err != nil {
			return nil, fmt.Errorf("remove rsvp: %w", err)
		}
		return nil, nil
	case errors.Is(err, domain.ErrNotFound):
		if _, err := s.rsvpRepo.Add(ctx, userID, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrEventFull) {
				return nil, err
			}
			return nil, fmt.Errorf("add rsvp: %w", err)
		}
		status := domain.RSVPStatusGoing
		return &status, nil
	default:
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
}

func (s *interactionService) ToggleFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if followerID == "" {
		return false, domain.ErrUnauthenticated
	}
	if followerID == followedID {
		return false, domain.ErrSelfFollow
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("get user: %w", err)
	}

	exists, err := s.followRepo.Exists(ctx, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	if exists {
		if _, err := s.followRepo.Remove(ctx, followerID, followedID); err != nil {
			return false, fmt.Errorf("remove follow: %w", err)
		}
		return false, nil
	}
	if _, err := s.followRepo.Add(ctx, followerID, followedID); err != nil {
		return false, fmt.Errorf("add follow: %w", err)
	}
	return true, nil
}
