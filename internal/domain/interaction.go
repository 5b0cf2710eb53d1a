package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for interaction toggles.
var (
	ErrSelfFollow = errors.New("cannot follow yourself")
	ErrEventFull  = errors.New("event is full")
)

// RSVPStatusGoing is the only RSVP status currently in use; absence of a row
// means "not going".
const RSVPStatusGoing = "going"

// Bookmark is a user's saved reference to an event. At most one bookmark
// exists per (user, event).
// swagger:model Bookmark
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RSVP records a user's confirmed intent to attend an event. The event's
// participant counter is kept in step with the set of RSVP rows.
// swagger:model RSVP
type RSVP struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is a one-directional social relationship between two users.
// swagger:model Follow
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookmarkRepository defines storage operations for bookmarks.
// Add is a no-op (added=false) when the row already exists; Remove is a
// no-op (removed=false) when it does not. Neither case is an error.
type BookmarkRepository interface {
	Add(ctx context.Context, userID, eventID string) (added bool, err error)
	Remove(ctx context.Context, userID, eventID string) (removed bool, err error)
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// RSVPRepository defines storage operations for RSVPs. Add and Remove mutate
// the RSVP row and the event's participant counter in a single transaction;
// Add fails with ErrEventFull when the event is at capacity.
type RSVPRepository interface {
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error)
	Add(ctx context.Context, userID, eventID string) (added bool, err error)
	Remove(ctx context.Context, userID, eventID string) (removed bool, err error)
	Count(ctx context.Context) (int, error)
}

// FollowRepository defines storage operations for follower relationships.
type FollowRepository interface {
	Add(ctx context.Context, followerID, followedID string) (added bool, err error)
	Remove(ctx context.Context, followerID, followedID string) (removed bool, err error)
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}

// InteractionService applies the three idempotent-intent toggles. Each call
// returns the authoritative post-toggle state so clients can reconcile
// optimistic local state. An empty user ID fails with ErrUnauthenticated.
type InteractionService interface {
	ToggleBookmark(ctx context.Context, userID, eventID string) (bookmarked bool, err error)
	// ToggleRSVP returns the post-toggle RSVP status: "going" after an add,
	// nil after a removal.
	ToggleRSVP(ctx context.Context, userID, eventID string) (status *string, err error)
	ToggleFollow(ctx context.Context, followerID, followedID string) (following bool, err error)
}
