package postgres

import (
	"context"
	"database/sql"

	"speaks/internal/domain"
)

type followRepository struct {
	DB *sql.DB
}

func NewFollowRepository(db *sql.DB) domain.FollowRepository {
	return &followRepository{
		DB: db,
	}
}

func (r *followRepository) Add(ctx context.Context, followerID, followedID string) (bool, error) {
	query := `
		INSERT INTO followers (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *followRepository) Remove(ctx context.Context, followerID, followedID string) (bool, error) {
	query := `DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`
	result, err := r.DB.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2)`
	var exists bool
	err := r.DB.QueryRowContext(ctx, query, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM followers WHERE followed_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM followers WHERE follower_id = $1`, userID).Scan(&count)
	return count, err
}
