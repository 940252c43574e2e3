package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

type PgActionRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgActionRepository(db PGXPool, logger *slog.Logger) domain.ActionRepository {
	return &PgActionRepository{db: db, logger: logger.With("component", "action_repository_pg")}
}

// GetActiveByName looks up an active Action by normalized name, or (nil, nil)
// when no such trigger is configured.
func (r *PgActionRepository) GetActiveByName(ctx context.Context, name string) (*domain.Action, error) {
	query := `SELECT id, name, active, created_at, updated_at
	          FROM actions WHERE name = $1 AND active = TRUE`

	var a domain.Action
	err := r.db.QueryRow(ctx, query, domain.NormalizeActionName(name)).Scan(
		&a.ID,
		&a.Name,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error querying action by name", "error", err, "name", name)
		return nil, fmt.Errorf("failed to get action %s: %w", name, err)
	}
	return &a, nil
}

// Create inserts a new Action. The name is normalized on write so the
// case-insensitive uniqueness constraint always sees the canonical form.
func (r *PgActionRepository) Create(ctx context.Context, action *domain.Action) error {
	action.Name = domain.NormalizeActionName(action.Name)
	query := `
		INSERT INTO actions (name, active, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, action.Name, action.Active).Scan(&action.ID, &action.CreatedAt, &action.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error inserting action", "error", err, "name", action.Name)
		return fmt.Errorf("failed to create action %s: %w", action.Name, err)
	}
	return nil
}
