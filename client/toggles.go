package client

import (
	"context"
	"errors"
	"sync"

	"speaks/internal/domain"
)

// Toggle layer errors.
var (
	// ErrSignInRequired is returned when a toggle is attempted without a
	// token. No request is made and local state is untouched.
	ErrSignInRequired = errors.New("sign in required")
	// ErrToggleInFlight is returned when a toggle for the same target has
	// not settled yet. The call is dropped rather than queued.
	ErrToggleInFlight = errors.New("toggle already in flight")
)

// Notifier receives user-facing messages from the toggle layer: the sign-in
// prompt and the rollback notice. Each failed toggle produces exactly one
// notification.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// EventState is the locally tracked interaction state for one event.
type EventState struct {
	IsBookmarked   bool
	UserRSVPStatus *string
}

// Toggles keeps a local view of the user's bookmarks, RSVPs, and follows and
// flips it speculatively: state changes before the request settles, then is
// reconciled with the server's answer or rolled back on failure.
type Toggles struct {
	api      *Client
	notifier Notifier

	mu       sync.Mutex
	inflight map[string]bool
	events   map[string]*EventState
	follows  map[string]bool
}

// NewToggles creates the speculative toggle layer on top of api. notifier
// must not be nil.
func NewToggles(api *Client, notifier Notifier) *Toggles {
	return &Toggles{
		api:      api,
		notifier: notifier,
		inflight: make(map[string]bool),
		events:   make(map[string]*EventState),
		follows:  make(map[string]bool),
	}
}

// Seed installs the interaction state carried by fetched events, so toggles
// start from what the server last reported.
func (t *Toggles) Seed(events []*domain.DiscoveredEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range events {
		t.events[e.ID] = &EventState{
			IsBookmarked:   e.IsBookmarked,
			UserRSVPStatus: e.UserRSVPStatus,
		}
	}
}

// SeedFollow installs the known follow state for a user.
func (t *Toggles) SeedFollow(userID string, following bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.follows[userID] = following
}

// EventState returns the locally tracked state for an event.
func (t *Toggles) EventState(eventID string) EventState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.events[eventID]; ok {
		return *s
	}
	return EventState{}
}

// Following returns the locally tracked follow state for a user.
func (t *Toggles) Following(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.follows[userID]
}

// begin gates a toggle: rejects anonymous callers and duplicate in-flight
// toggles for the same target. On success the caller must call the returned
// release function when the request settles.
func (t *Toggles) begin(key string) (func(), error) {
	if !t.api.Authenticated() {
		t.notifier.Notify("Sign in to save events and follow organizers")
		return nil, ErrSignInRequired
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inflight[key] {
		return nil, ErrToggleInFlight
	}
	t.inflight[key] = true
	return func() {
		t.mu.Lock()
		delete(t.inflight, key)
		t.mu.Unlock()
	}, nil
}

// ToggleBookmark flips the bookmark locally, settles it with the server, and
// returns the reconciled state. On failure the flip is undone and the
// notifier fires once.
func (t *Toggles) ToggleBookmark(ctx context.Context, eventID string) (bool, error) {
	release, err := t.begin("bookmark:" + eventID)
	if err != nil {
		return t.EventState(eventID).IsBookmarked, err
	}
	defer release()

	t.mu.Lock()
	state := t.ensureEvent(eventID)
	prior := state.IsBookmarked
	state.IsBookmarked = !prior
	t.mu.Unlock()

	stored, err := t.api.ToggleBookmark(ctx, eventID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.events[eventID].IsBookmarked = prior
		t.notifier.Notify("Couldn't update bookmark, please try again")
		return prior, err
	}
	t.events[eventID].IsBookmarked = stored
	return stored, nil
}

// ToggleRSVP flips the RSVP locally, settles it with the server, and returns
// the reconciled status. On failure, including a full event, the flip is
// undone and the notifier fires once.
func (t *Toggles) ToggleRSVP(ctx context.Context, eventID string) (*string, error) {
	release, err := t.begin("rsvp:" + eventID)
	if err != nil {
		return t.EventState(eventID).UserRSVPStatus, err
	}
	defer release()

	t.mu.Lock()
	state := t.ensureEvent(eventID)
	prior := state.UserRSVPStatus
	if prior == nil {
		going := domain.RSVPStatusGoing
		state.UserRSVPStatus = &going
	} else {
		state.UserRSVPStatus = nil
	}
	t.mu.Unlock()

	stored, err := t.api.ToggleRSVP(ctx, eventID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.events[eventID].UserRSVPStatus = prior
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "conflict" {
			t.notifier.Notify("This event is full")
		} else {
			t.notifier.Notify("Couldn't update your RSVP, please try again")
		}
		return prior, err
	}
	t.events[eventID].UserRSVPStatus = stored
	return stored, nil
}

// ToggleFollow flips the follow locally, settles it with the server, and
// returns the reconciled state. On failure the flip is undone and the
// notifier fires once.
func (t *Toggles) ToggleFollow(ctx context.Context, userID string) (bool, error) {
	release, err := t.begin("follow:" + userID)
	if err != nil {
		return t.Following(userID), err
	}
	defer release()

	t.mu.Lock()
	prior := t.follows[userID]
	t.follows[userID] = !prior
	t.mu.Unlock()

	stored, err := t.api.ToggleFollow(ctx, userID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.follows[userID] = prior
		t.notifier.Notify("Couldn't update follow, please try again")
		return prior, err
	}
	t.follows[userID] = stored
	return stored, nil
}

// ensureEvent returns the tracked state for eventID, creating it when the
// event was never seeded. Caller holds t.mu.
func (t *Toggles) ensureEvent(eventID string) *EventState {
	if s, ok := t.events[eventID]; ok {
		return s
	}
	s := &EventState{}
	t.events[eventID] = s
	return s
}
