package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"speaks/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func capacityRows(max any, current int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"max_participants", "current_participants"}).AddRow(max, current)
}

func TestRSVPRepository_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts and bumps counter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT max_participants, current_participants FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(capacityRows(100, 5))
		mock.ExpectExec(`INSERT INTO rsvps \(user_id, event_id, status\)`).
			WithArgs("u1", "ev-1", domain.RSVPStatusGoing).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`SET current_participants = current_participants \+ 1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRSVPRepository(db)
		added, err := repo.Add(ctx, "u1", "ev-1")
		require.NoError(t, err)
		require.True(t, added)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unlimited capacity always admits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(capacityRows(nil, 9000))
		mock.ExpectExec(`INSERT INTO rsvps`).
			WithArgs("u1", "ev-1", domain.RSVPStatusGoing).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`SET current_participants = current_participants \+ 1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRSVPRepository(db)
		added, err := repo.Add(ctx, "u1", "ev-1")
		require.NoError(t, err)
		require.True(t, added)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("full event rolls back with ErrEventFull", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(capacityRows(50, 50))
		mock.ExpectRollback()

		repo := NewRSVPRepository(db)
		added, err := repo.Add(ctx, "u1", "ev-1")
		require.True(t, errors.Is(err, domain.ErrEventFull))
		require.False(t, added)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already going leaves counter alone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(capacityRows(100, 5))
		mock.ExpectExec(`INSERT INTO rsvps`).
			WithArgs("u1", "ev-1", domain.RSVPStatusGoing).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		repo := NewRSVPRepository(db)
		added, err := repo.Add(ctx, "u1", "ev-1")
		require.NoError(t, err)
		require.False(t, added)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		repo := NewRSVPRepository(db)
		_, err = repo.Add(ctx, "u1", "ev-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRSVPRepository_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and decrements counter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM rsvps WHERE user_id = \$1 AND event_id = \$2`).
			WithArgs("u1", "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`SET current_participants = GREATEST\(current_participants - 1, 0\)`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRSVPRepository(db)
		removed, err := repo.Remove(ctx, "u1", "ev-1")
		require.NoError(t, err)
		require.True(t, removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent row is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM rsvps`).
			WithArgs("u1", "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		repo := NewRSVPRepository(db)
		removed, err := repo.Remove(ctx, "u1", "ev-1")
		require.NoError(t, err)
		require.False(t, removed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRSVPRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM rsvps`).
			WithArgs("ev-1", "u1").
			WillReturnError(sql.ErrNoRows)

		repo := NewRSVPRepository(db)
		got, err := repo.GetByEventAndUser(ctx, "ev-1", "u1")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
	})
}
