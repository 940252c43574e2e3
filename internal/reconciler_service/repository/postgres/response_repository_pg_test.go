package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

func setupResponseTest(t *testing.T) (domain.ResponseRepository, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewPgResponseRepository(mockPool, logger)
	return repo, mockPool
}

func TestPgResponseRepository_GetActiveByAction(t *testing.T) {
	repo, mockPool := setupResponseTest(t)
	defer mockPool.Close()

	now := time.Now().UTC()

	t.Run("Found", func(t *testing.T) {
		rows := mockPool.NewRows([]string{"id", "action_id", "body", "active", "created_at", "updated_at"}).
			AddRow(int64(3), int64(7), "Office hours are 9-5.", true, now, now)
		mockPool.ExpectQuery(`SELECT .+ FROM responses WHERE action_id = \$1 AND active = TRUE`).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		resp, err := repo.GetActiveByAction(context.Background(), 7)
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, "Office hours are 9-5.", resp.Body)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT .+ FROM responses WHERE action_id = \$1 AND active = TRUE`).
			WithArgs(int64(7)).
			WillReturnError(pgx.ErrNoRows)

		resp, err := repo.GetActiveByAction(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, resp)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgResponseRepository_Create(t *testing.T) {
	repo, mockPool := setupResponseTest(t)
	defer mockPool.Close()

	now := time.Now().UTC()

	t.Run("ActiveInsertDeactivatesSiblings", func(t *testing.T) {
		response := &domain.Response{ActionID: 7, Body: "New reply", Active: true}

		mockPool.ExpectBegin()
		mockPool.ExpectExec(`UPDATE responses SET active = FALSE`).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectQuery(`INSERT INTO responses`).
			WithArgs(int64(7), "New reply", true).
			WillReturnRows(mockPool.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(4), now, now))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Create(context.Background(), response))
		assert.Equal(t, int64(4), response.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("InactiveInsertLeavesSiblingsAlone", func(t *testing.T) {
		response := &domain.Response{ActionID: 7, Body: "Draft reply", Active: false}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`INSERT INTO responses`).
			WithArgs(int64(7), "Draft reply", false).
			WillReturnRows(mockPool.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Create(context.Background(), response))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("InsertErrorRollsBack", func(t *testing.T) {
		response := &domain.Response{ActionID: 7, Body: "New reply", Active: true}
		dbErr := errors.New("database error")

		mockPool.ExpectBegin()
		mockPool.ExpectExec(`UPDATE responses SET active = FALSE`).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectQuery(`INSERT INTO responses`).
			WillReturnError(dbErr)
		mockPool.ExpectRollback()

		err := repo.Create(context.Background(), response)
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgResponseRepository_SetActive(t *testing.T) {
	repo, mockPool := setupResponseTest(t)
	defer mockPool.Close()

	t.Run("FlipsSiblingsAtomically", func(t *testing.T) {
		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`SELECT action_id FROM responses WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(4)).
			WillReturnRows(mockPool.NewRows([]string{"action_id"}).AddRow(int64(7)))
		mockPool.ExpectExec(`UPDATE responses SET active = FALSE`).
			WithArgs(int64(7), int64(4)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectExec(`UPDATE responses SET active = TRUE`).
			WithArgs(int64(4)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		require.NoError(t, repo.SetActive(context.Background(), 4))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("UnknownResponse", func(t *testing.T) {
		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`SELECT action_id FROM responses WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)
		mockPool.ExpectRollback()

		err := repo.SetActive(context.Background(), 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
