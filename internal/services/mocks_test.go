package services

import (
	"context"

	"speaks/internal/domain"
)

type mockEventRepository struct {
	events       map[string]*domain.Event
	annotated    map[string]*domain.DiscoveredEvent
	discoverable []*domain.DiscoveredEvent
	bookmarked   map[string][]*domain.DiscoveredEvent
	byCreator    map[string][]*domain.Event
	byStatus     map[domain.EventStatus][]*domain.Event
	counts       map[domain.EventStatus]int
	total        int
	err          error

	lastViewerID string
	lastFilters  domain.EventFilters
	lastPage     domain.PageRequest

	createdEvents []*domain.Event
	statusSets    map[string]domain.EventStatus
	moderationSet map[string]struct {
		status   domain.EventStatus
		verified bool
	}
	deleted []string
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{
		events:    map[string]*domain.Event{},
		annotated: map[string]*domain.DiscoveredEvent{},
		statusSets: map[string]domain.EventStatus{},
		moderationSet: map[string]struct {
			status   domain.EventStatus
			verified bool
		}{},
	}
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	if event.ID == "" {
		event.ID = "generated-id"
	}
	m.createdEvents = append(m.createdEvents, event)
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) GetAnnotatedByID(ctx context.Context, id, viewerID string) (*domain.DiscoveredEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastViewerID = viewerID
	ev, ok := m.annotated[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) ListDiscoverable(ctx context.Context, viewerID string, filters domain.EventFilters, page domain.PageRequest) ([]*domain.DiscoveredEvent, error) {
	m.lastViewerID = viewerID
	m.lastFilters = filters
	m.lastPage = page
	if m.err != nil {
		return nil, m.err
	}
	return m.discoverable, nil
}

func (m *mockEventRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byCreator[creatorID], nil
}

func (m *mockEventRepository) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byStatus[status], nil
}

func (m *mockEventRepository) ListBookmarkedByUser(ctx context.Context, userID string) ([]*domain.DiscoveredEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bookmarked[userID], nil
}

func (m *mockEventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		ev.Title = *upd.Title
	}
	return ev, nil
}

func (m *mockEventRepository) SetModeration(ctx context.Context, eventID string, status domain.EventStatus, verified bool) error {
	if m.err != nil {
		return m.err
	}
	m.moderationSet[eventID] = struct {
		status   domain.EventStatus
		verified bool
	}{status, verified}
	return nil
}

func (m *mockEventRepository) SetStatus(ctx context.Context, eventID string, status domain.EventStatus) error {
	if m.err != nil {
		return m.err
	}
	m.statusSets[eventID] = status
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEventRepository) CountByStatus(ctx context.Context, status domain.EventStatus) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[status], nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

type mockBookmarkRepository struct {
	existing map[string]bool // userID:eventID
	count    int
	err      error
	added    []string
	removed  []string
}

func bkey(userID, eventID string) string { return userID + ":" + eventID }

func (m *mockBookmarkRepository) Add(ctx context.Context, userID, eventID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.added = append(m.added, bkey(userID, eventID))
	return true, nil
}

func (m *mockBookmarkRepository) Remove(ctx context.Context, userID, eventID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.removed = append(m.removed, bkey(userID, eventID))
	return true, nil
}

func (m *mockBookmarkRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[bkey(userID, eventID)], nil
}

func (m *mockBookmarkRepository) Count(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

type mockRSVPRepository struct {
	existing map[string]*domain.RSVP // eventID:userID
	addErr   error
	err      error
	count    int
	added    []string
	removed  []string
}

func rkey(eventID, userID string) string { return eventID + ":" + userID }

func (m *mockRSVPRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.existing[rkey(eventID, userID)]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockRSVPRepository) Add(ctx context.Context, userID, eventID string) (bool, error) {
	if m.addErr != nil {
		return false, m.addErr
	}
	if m.err != nil {
		return false, m.err
	}
	m.added = append(m.added, rkey(eventID, userID))
	return true, nil
}

func (m *mockRSVPRepository) Remove(ctx context.Context, userID, eventID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.removed = append(m.removed, rkey(eventID, userID))
	return true, nil
}

func (m *mockRSVPRepository) Count(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

type mockFollowRepository struct {
	existing  map[string]bool // followerID:followedID
	followers map[string]int
	following map[string]int
	err       error
	added     []string
	removed   []string
}

func fkey(followerID, followedID string) string { return followerID + ":" + followedID }

func (m *mockFollowRepository) Add(ctx context.Context, followerID, followedID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.added = append(m.added, fkey(followerID, followedID))
	return true, nil
}

func (m *mockFollowRepository) Remove(ctx context.Context, followerID, followedID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.removed = append(m.removed, fkey(followerID, followedID))
	return true, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[fkey(followerID, followedID)], nil
}

func (m *mockFollowRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.followers[userID], nil
}

func (m *mockFollowRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.following[userID], nil
}

type mockUserRepository struct {
	users     map[string]*domain.User // by id
	byEmail   map[string]*domain.User
	count     int
	err       error
	createErr error
	updated   []*domain.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.err != nil {
		return m.err
	}
	if user.ID == "" {
		user.ID = "generated-user-id"
	}
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

type mockAuditLogRepository struct {
	entries []*domain.AuditLog
	err     error
}

func (m *mockAuditLogRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

type mockEmailService struct {
	approved []*domain.EventModerationEmailData
	rejected []*domain.EventModerationEmailData
	err      error
}

func (m *mockEmailService) SendEventApproved(ctx context.Context, data *domain.EventModerationEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.approved = append(m.approved, data)
	return nil
}

func (m *mockEmailService) SendEventRejected(ctx context.Context, data *domain.EventModerationEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.rejected = append(m.rejected, data)
	return nil
}
