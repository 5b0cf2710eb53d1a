package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state of an event listing.
type EventStatus string

const (
	StatusDraft         EventStatus = "draft"
	StatusPendingReview EventStatus = "pending_review"
	StatusLive          EventStatus = "live"
	StatusFull          EventStatus = "full"
	StatusEnded         EventStatus = "ended"
	StatusCancelled     EventStatus = "cancelled"
)

// TransitionActor identifies who is driving a status transition.
type TransitionActor string

const (
	ActorCreator TransitionActor = "creator"
	ActorAdmin   TransitionActor = "admin"
	ActorSystem  TransitionActor = "system"
)

// statusTransitions is the set of legal status transitions and the actors
// allowed to trigger each. Anything not listed here is rejected.
var statusTransitions = map[EventStatus]map[EventStatus][]TransitionActor{
	StatusDraft: {
		StatusPendingReview: {ActorCreator},
		StatusCancelled:     {ActorCreator},
	},
	StatusPendingReview: {
		StatusLive:      {ActorAdmin},
		StatusCancelled: {ActorAdmin, ActorCreator},
	},
	StatusLive: {
		StatusFull:      {ActorSystem},
		StatusEnded:     {ActorSystem},
		StatusCancelled: {ActorCreator},
	},
	StatusFull: {
		StatusLive:      {ActorSystem},
		StatusEnded:     {ActorSystem},
		StatusCancelled: {ActorCreator},
	},
}

// CanTransition reports whether actor may move an event from one status to another.
func CanTransition(from, to EventStatus, actor TransitionActor) bool {
	actors, ok := statusTransitions[from][to]
	if !ok {
		return false
	}
	for _, a := range actors {
		if a == actor {
			return true
		}
	}
	return false
}

// Event represents one MUN event listing.
// swagger:model Event
type Event struct {
	ID                  string      `json:"id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Category            string      `json:"category"`
	DateTime            time.Time   `json:"date_time"`
	Venue               string      `json:"venue"`
	Tags                []string    `json:"tags"`
	MaxParticipants     *int        `json:"max_participants"`
	CurrentParticipants int         `json:"current_participants"`
	ImageURL            *string     `json:"image_url"`
	AdditionalInfo      *string     `json:"additional_info"`
	Status              EventStatus `json:"status"`
	IsVerified          bool        `json:"is_verified"`
	CreatorID           string      `json:"creator_id"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// NewEvent returns a new draft Event with the given fields. ID is typically set by the repository on create.
func NewEvent(creatorID, title, description, category, venue string, dateTime time.Time, tags []string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Category:    category,
		DateTime:    dateTime,
		Venue:       venue,
		Tags:        tags,
		Status:      StatusDraft,
		CreatorID:   creatorID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// AllCategories is the sentinel category meaning "do not filter by category".
const AllCategories = "All Categories"

// Categories lists the event categories offered by the platform.
var Categories = []string{
	"Model UN Conference",
	"Youth Parliament",
	"Debate Competition",
	"Crisis Committee",
	"Specialized Agency",
	"Historical Committee",
}

// SortOrder selects the ordering of discovery results. All orderings break
// ties on event id so that pagination is deterministic.
type SortOrder string

const (
	SortDateAsc          SortOrder = "date_asc"
	SortDateDesc         SortOrder = "date_desc"
	SortParticipantsDesc SortOrder = "participants_desc"
	SortParticipantsAsc  SortOrder = "participants_asc"
	SortCreatedDesc      SortOrder = "created_desc"
)

// ValidSortOrder reports whether s is a recognized sort order.
func ValidSortOrder(s SortOrder) bool {
	switch s {
	case SortDateAsc, SortDateDesc, SortParticipantsDesc, SortParticipantsAsc, SortCreatedDesc:
		return true
	}
	return false
}

// EventFilters is the discovery filter set. Zero values mean "no filter";
// Category additionally treats AllCategories as unset.
type EventFilters struct {
	Category string     `json:"category"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Location string     `json:"location"`
	Search   string     `json:"search"`
	Sort     SortOrder  `json:"sort"`
}

// PageRequest is an offset/limit pagination window.
type PageRequest struct {
	Offset int
	Limit  int
}

// DiscoveredEvent is an event annotated with the viewer's interaction state.
// For anonymous viewers IsBookmarked is false and UserRSVPStatus is nil.
// swagger:model DiscoveredEvent
type DiscoveredEvent struct {
	Event
	IsBookmarked   bool    `json:"is_bookmarked"`
	UserRSVPStatus *string `json:"user_rsvp_status"`
}

// EventPage is one page of discovery results. HasMore is true iff the page
// is exactly as long as the requested limit.
// swagger:model EventPage
type EventPage struct {
	Events  []*DiscoveredEvent `json:"events"`
	HasMore bool               `json:"has_more"`
}

// EventUpdate carries the mutable event fields for a partial update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Title           *string
	Description     *string
	Category        *string
	DateTime        *time.Time
	Venue           *string
	Tags            []string
	MaxParticipants *int
	ImageURL        *string
	AdditionalInfo  *string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetAnnotatedByID returns the event with viewer annotations.
	// viewerID may be empty for anonymous viewers.
	GetAnnotatedByID(ctx context.Context, id, viewerID string) (*DiscoveredEvent, error)
	// ListDiscoverable returns verified live events matching the filters,
	// sorted, windowed, and annotated for the viewer.
	ListDiscoverable(ctx context.Context, viewerID string, filters EventFilters, page PageRequest) ([]*DiscoveredEvent, error)
	ListByCreatorID(ctx context.Context, creatorID string) ([]*Event, error)
	ListByStatus(ctx context.Context, status EventStatus) ([]*Event, error)
	// ListBookmarkedByUser returns the user's bookmarked events, most recently
	// bookmarked first, annotated for that user.
	ListBookmarkedByUser(ctx context.Context, userID string) ([]*DiscoveredEvent, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	// SetModeration applies an admin moderation decision in one write.
	SetModeration(ctx context.Context, eventID string, status EventStatus, verified bool) error
	SetStatus(ctx context.Context, eventID string, status EventStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status EventStatus) (int, error)
	Count(ctx context.Context) (int, error)
}

// DiscoveryService answers the public event discovery queries.
type DiscoveryService interface {
	// DiscoverEvents returns a page of verified live events for the viewer.
	// On storage failure the returned page is empty with HasMore=false and
	// the error is non-nil, so callers can tell failure from an empty result.
	DiscoverEvents(ctx context.Context, viewerID string, filters EventFilters, page PageRequest) (*EventPage, error)
	GetEvent(ctx context.Context, viewerID, eventID string) (*DiscoveredEvent, error)
	ListBookmarkedEvents(ctx context.Context, userID string) ([]*DiscoveredEvent, error)
}

// EventService defines the creator-facing event lifecycle operations.
type EventService interface {
	// CreateEvent validates and stores a new event. When submit is true the
	// event is created directly in pending_review, otherwise as a draft.
	CreateEvent(ctx context.Context, event *Event, submit bool) error
	SubmitForReview(ctx context.Context, eventID, creatorID string) (*Event, error)
	UpdateEvent(ctx context.Context, eventID, creatorID string, upd EventUpdate) (*Event, error)
	CancelEvent(ctx context.Context, eventID, creatorID string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, creatorID string) error
	ListMyEvents(ctx context.Context, creatorID string) ([]*Event, error)
}
