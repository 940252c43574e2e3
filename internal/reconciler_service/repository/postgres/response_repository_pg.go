package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

type PgResponseRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgResponseRepository(db PGXPool, logger *slog.Logger) domain.ResponseRepository {
	return &PgResponseRepository{db: db, logger: logger.With("component", "response_repository_pg")}
}

// GetActiveByAction returns the Action's single active Response, or
// (nil, nil) when none is configured.
func (r *PgResponseRepository) GetActiveByAction(ctx context.Context, actionID int64) (*domain.Response, error) {
	query := `SELECT id, action_id, body, active, created_at, updated_at
	          FROM responses WHERE action_id = $1 AND active = TRUE`

	var resp domain.Response
	err := r.db.QueryRow(ctx, query, actionID).Scan(
		&resp.ID,
		&resp.ActionID,
		&resp.Body,
		&resp.Active,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error querying active response", "error", err, "action_id", actionID)
		return nil, fmt.Errorf("failed to get active response for action %d: %w", actionID, err)
	}
	return &resp, nil
}

// Create inserts a new Response. When inserted active, the sibling flip runs
// in the same transaction so the at-most-one-active invariant never lapses.
func (r *PgResponseRepository) Create(ctx context.Context, response *domain.Response) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if response.Active {
			deactivate := `UPDATE responses SET active = FALSE, updated_at = NOW()
			               WHERE action_id = $1 AND active = TRUE`
			if _, err := tx.Exec(ctx, deactivate, response.ActionID); err != nil {
				return fmt.Errorf("failed to deactivate sibling responses for action %d: %w", response.ActionID, err)
			}
		}

		insert := `
			INSERT INTO responses (action_id, body, active, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRow(ctx, insert, response.ActionID, response.Body, response.Active).
			Scan(&response.ID, &response.CreatedAt, &response.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create response for action %d: %w", response.ActionID, err)
		}
		return nil
	})
}

// SetActive activates the given Response and deactivates any previously
// active sibling of the same Action, atomically.
func (r *PgResponseRepository) SetActive(ctx context.Context, responseID int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var actionID int64
		err := tx.QueryRow(ctx, `SELECT action_id FROM responses WHERE id = $1 FOR UPDATE`, responseID).Scan(&actionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("response %d: %w", responseID, domain.ErrNotFound)
			}
			return fmt.Errorf("failed to lock response %d: %w", responseID, err)
		}

		deactivate := `UPDATE responses SET active = FALSE, updated_at = NOW()
		               WHERE action_id = $1 AND active = TRUE AND id <> $2`
		if _, err := tx.Exec(ctx, deactivate, actionID, responseID); err != nil {
			return fmt.Errorf("failed to deactivate sibling responses for action %d: %w", actionID, err)
		}

		activate := `UPDATE responses SET active = TRUE, updated_at = NOW() WHERE id = $1`
		if _, err := tx.Exec(ctx, activate, responseID); err != nil {
			return fmt.Errorf("failed to activate response %d: %w", responseID, err)
		}
		return nil
	})
}
