package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"speaks/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status, created_at
		FROM rsvps
		WHERE event_id = $1 AND user_id = $2
	`
	rsvp := &domain.RSVP{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&rsvp.ID, &rsvp.UserID, &rsvp.EventID, &rsvp.Status, &rsvp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

// Add inserts the RSVP row and bumps the event's participant counter in one
// transaction, so the row set and the counter can never diverge. The event
// row is locked first to serialize concurrent adds against the capacity
// check; an event at capacity fails with ErrEventFull before any write.
func (r *rsvpRepository) Add(ctx context.Context, userID, eventID string) (added bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var maxNull sql.NullInt64
	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT max_participants, current_participants FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&maxNull, &current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	if maxNull.Valid && int64(current) >= maxNull.Int64 {
		return false, domain.ErrEventFull
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO rsvps (user_id, event_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`, userID, eventID, domain.RSVPStatusGoing)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Already going; nothing to count.
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET current_participants = current_participants + 1,
			status = CASE
				WHEN status = 'live' AND max_participants IS NOT NULL
					AND current_participants + 1 >= max_participants THEN 'full'
				ELSE status
			END,
			updated_at = NOW()
		WHERE id = $1
	`, eventID)
	if err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// Remove deletes the RSVP row and decrements the counter in one transaction.
// Removing an absent row is a no-op and leaves the counter untouched.
func (r *rsvpRepository) Remove(ctx context.Context, userID, eventID string) (removed bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM rsvps WHERE user_id = $1 AND event_id = $2`,
		userID, eventID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET current_participants = GREATEST(current_participants - 1, 0),
			status = CASE WHEN status = 'full' THEN 'live' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
	`, eventID)
	if err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *rsvpRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rsvps`).Scan(&count)
	return count, err
}
