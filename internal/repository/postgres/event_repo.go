package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"speaks/internal/domain"
)

// eventColumns is the canonical column list for scanning an event row.
const eventColumns = `e.id, e.title, e.description, e.category, e.date_time, e.venue, e.tags,
		e.max_participants, e.current_participants, e.image_url, e.additional_info,
		e.status, e.is_verified, e.creator_id, e.created_at, e.updated_at`

// annotatedJoins attaches the viewer's bookmark and RSVP rows. The viewer id
// is always $1; NULL (anonymous viewer) matches nothing, so the annotations
// come back false/nil.
const annotatedJoins = `
		LEFT JOIN bookmarks b ON b.event_id = e.id AND b.user_id = $1
		LEFT JOIN rsvps r ON r.event_id = e.id AND r.user_id = $1`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// viewerArg converts an optional viewer id to a NULL-able query argument.
func viewerArg(viewerID string) any {
	if viewerID == "" {
		return nil
	}
	return viewerID
}

func scanEvent(scan func(dest ...any) error, e *domain.Event) error {
	var maxNull sql.NullInt64
	var imageNull, infoNull sql.NullString
	var tags pq.StringArray
	err := scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.DateTime, &e.Venue, &tags,
		&maxNull, &e.CurrentParticipants, &imageNull, &infoNull,
		&e.Status, &e.IsVerified, &e.CreatorID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	e.Tags = []string(tags)
	if maxNull.Valid {
		v := int(maxNull.Int64)
		e.MaxParticipants = &v
	}
	if imageNull.Valid {
		e.ImageURL = &imageNull.String
	}
	if infoNull.Valid {
		e.AdditionalInfo = &infoNull.String
	}
	return nil
}

func scanAnnotatedEvent(scan func(dest ...any) error, de *domain.DiscoveredEvent) error {
	var maxNull sql.NullInt64
	var imageNull, infoNull, rsvpNull sql.NullString
	var tags pq.StringArray
	err := scan(
		&de.ID, &de.Title, &de.Description, &de.Category, &de.DateTime, &de.Venue, &tags,
		&maxNull, &de.CurrentParticipants, &imageNull, &infoNull,
		&de.Status, &de.IsVerified, &de.CreatorID, &de.CreatedAt, &de.UpdatedAt,
		&de.IsBookmarked, &rsvpNull,
	)
	if err != nil {
		return err
	}
	de.Tags = []string(tags)
	if maxNull.Valid {
		v := int(maxNull.Int64)
		de.MaxParticipants = &v
	}
	if imageNull.Valid {
		de.ImageURL = &imageNull.String
	}
	if infoNull.Valid {
		de.AdditionalInfo = &infoNull.String
	}
	if rsvpNull.Valid {
		de.UserRSVPStatus = &rsvpNull.String
	}
	return nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, category, date_time, venue, tags,
			max_participants, image_url, additional_info, status, is_verified,
			creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	var maxArg any
	if e.MaxParticipants != nil {
		maxArg = *e.MaxParticipants
	}
	var imageArg, infoArg any
	if e.ImageURL != nil {
		imageArg = *e.ImageURL
	}
	if e.AdditionalInfo != nil {
		infoArg = *e.AdditionalInfo
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Category, e.DateTime, e.Venue, pq.Array(e.Tags),
		maxArg, imageArg, infoArg, e.Status, e.IsVerified,
		e.CreatorID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events e WHERE e.id = $1`, eventColumns)
	e := &domain.Event{}
	err := scanEvent(r.DB.QueryRowContext(ctx, query, id).Scan, e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetAnnotatedByID(ctx context.Context, id, viewerID string) (*domain.DiscoveredEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s, (b.user_id IS NOT NULL) AS is_bookmarked, r.status AS user_rsvp_status
		FROM events e %s
		WHERE e.id = $2
	`, eventColumns, annotatedJoins)
	de := &domain.DiscoveredEvent{}
	err := scanAnnotatedEvent(r.DB.QueryRowContext(ctx, query, viewerArg(viewerID), id).Scan, de)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return de, nil
}

// orderClause maps a sort order to SQL. Every ordering ends with the id
// tiebreak so pages are stable under offset pagination.
func orderClause(sort domain.SortOrder) string {
	switch sort {
	case domain.SortDateDesc:
		return "e.date_time DESC, e.id ASC"
	case domain.SortParticipantsDesc:
		return "e.current_participants DESC, e.id ASC"
	case domain.SortParticipantsAsc:
		return "e.current_participants ASC, e.id ASC"
	case domain.SortCreatedDesc:
		return "e.created_at DESC, e.id ASC"
	default:
		return "e.date_time ASC, e.id ASC"
	}
}

func (r *eventRepository) ListDiscoverable(ctx context.Context, viewerID string, f domain.EventFilters, page domain.PageRequest) ([]*domain.DiscoveredEvent, error) {
	where := []string{"e.is_verified = TRUE", "e.status = 'live'"}
	args := []any{viewerArg(viewerID)}
	n := 2

	if f.Category != "" && f.Category != domain.AllCategories {
		where = append(where, fmt.Sprintf("e.category = $%d", n))
		args = append(args, f.Category)
		n++
	}
	if f.DateFrom != nil {
		where = append(where, fmt.Sprintf("e.date_time >= $%d", n))
		args = append(args, *f.DateFrom)
		n++
	}
	if f.DateTo != nil {
		where = append(where, fmt.Sprintf("e.date_time <= $%d", n))
		args = append(args, *f.DateTo)
		n++
	}
	if f.Location != "" {
		where = append(where, fmt.Sprintf("e.venue ILIKE $%d", n))
		args = append(args, "%"+f.Location+"%")
		n++
	}
	// Free-text search: the event matches when ANY whitespace-separated term
	// matches title, description, or venue, or equals a tag (all
	// case-insensitive).
	if terms := strings.Fields(f.Search); len(terms) > 0 {
		var termClauses []string
		for _, term := range terms {
			termClauses = append(termClauses, fmt.Sprintf(
				"(e.title ILIKE $%d OR e.description ILIKE $%d OR e.venue ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(e.tags) AS tag WHERE tag ILIKE $%d))",
				n, n, n, n+1))
			args = append(args, "%"+term+"%", term)
			n += 2
		}
		where = append(where, "("+strings.Join(termClauses, " OR ")+")")
	}

	query := fmt.Sprintf(`
		SELECT %s, (b.user_id IS NOT NULL) AS is_bookmarked, r.status AS user_rsvp_status
		FROM events e %s
		WHERE %s
		ORDER BY %s
		OFFSET $%d LIMIT $%d
	`, eventColumns, annotatedJoins, strings.Join(where, " AND "), orderClause(f.Sort), n, n+1)
	args = append(args, page.Offset, page.Limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.DiscoveredEvent, 0)
	for rows.Next() {
		de := &domain.DiscoveredEvent{}
		if err := scanAnnotatedEvent(rows.Scan, de); err != nil {
			return nil, err
		}
		events = append(events, de)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events e
		WHERE e.creator_id = $1
		ORDER BY e.created_at DESC
	`, eventColumns)
	return r.listEvents(ctx, query, creatorID)
}

func (r *eventRepository) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events e
		WHERE e.status = $1
		ORDER BY e.created_at ASC
	`, eventColumns)
	return r.listEvents(ctx, query, string(status))
}

func (r *eventRepository) listEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := scanEvent(rows.Scan, e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListBookmarkedByUser(ctx context.Context, userID string) ([]*domain.DiscoveredEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s, TRUE AS is_bookmarked, r.status AS user_rsvp_status
		FROM events e
		JOIN bookmarks b ON b.event_id = e.id AND b.user_id = $1
		LEFT JOIN rsvps r ON r.event_id = e.id AND r.user_id = $1
		ORDER BY b.created_at DESC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.DiscoveredEvent, 0)
	for rows.Next() {
		de := &domain.DiscoveredEvent{}
		if err := scanAnnotatedEvent(rows.Scan, de); err != nil {
			return nil, err
		}
		events = append(events, de)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	addSet := func(col string, val any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}
	if upd.Title != nil {
		addSet("title", *upd.Title)
	}
	if upd.Description != nil {
		addSet("description", *upd.Description)
	}
	if upd.Category != nil {
		addSet("category", *upd.Category)
	}
	if upd.DateTime != nil {
		addSet("date_time", *upd.DateTime)
	}
	if upd.Venue != nil {
		addSet("venue", *upd.Venue)
	}
	if upd.Tags != nil {
		addSet("tags", pq.Array(upd.Tags))
	}
	if upd.MaxParticipants != nil {
		addSet("max_participants", *upd.MaxParticipants)
	}
	if upd.ImageURL != nil {
		addSet("image_url", *upd.ImageURL)
	}
	if upd.AdditionalInfo != nil {
		addSet("additional_info", *upd.AdditionalInfo)
	}
	if n == 1 {
		// No fields to update; just fetch the current row.
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events e SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e := &domain.Event{}
	err := scanEvent(r.DB.QueryRowContext(ctx, query, args...).Scan, e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) SetModeration(ctx context.Context, eventID string, status domain.EventStatus, verified bool) error {
	query := `
		UPDATE events SET status = $1, is_verified = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, string(status), verified, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetStatus(ctx context.Context, eventID string, status domain.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, string(status), eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CountByStatus(ctx context.Context, status domain.EventStatus) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = $1`, string(status)).Scan(&count)
	return count, err
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}
