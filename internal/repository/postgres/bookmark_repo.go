package postgres

import (
	"context"
	"database/sql"

	"speaks/internal/domain"
)

type bookmarkRepository struct {
	DB *sql.DB
}

func NewBookmarkRepository(db *sql.DB) domain.BookmarkRepository {
	return &bookmarkRepository{
		DB: db,
	}
}

// Add inserts the bookmark row. A row that already exists is left alone and
// reported as added=false, so racing toggles converge instead of failing.
func (r *bookmarkRepository) Add(ctx context.Context, userID, eventID string) (bool, error) {
	query := `
		INSERT INTO bookmarks (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, userID, eventID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID, eventID string) (bool, error) {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND event_id = $2`
	result, err := r.DB.ExecContext(ctx, query, userID, eventID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND event_id = $2)`
	var exists bool
	err := r.DB.QueryRowContext(ctx, query, userID, eventID).Scan(&exists)
	return exists, err
}

func (r *bookmarkRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	return count, err
}
