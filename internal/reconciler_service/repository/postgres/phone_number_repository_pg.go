package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

type PgPhoneNumberRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgPhoneNumberRepository(db PGXPool, logger *slog.Logger) domain.PhoneNumberRepository {
	return &PgPhoneNumberRepository{db: db, logger: logger.With("component", "phone_number_repository_pg")}
}

// GetOrCreate resolves a registry entry by normalized number, creating it
// with the given default consent state on first reference. An existing row's
// unsubscribed flag is never touched here.
func (r *PgPhoneNumberRepository) GetOrCreate(ctx context.Context, number string, unsubscribed bool) (*domain.PhoneNumber, error) {
	query := `
		WITH ins AS (
			INSERT INTO phone_numbers (number, unsubscribed, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (number) DO NOTHING
			RETURNING number, unsubscribed, created_at, updated_at
		)
		SELECT number, unsubscribed, created_at, updated_at FROM ins
		UNION ALL
		SELECT number, unsubscribed, created_at, updated_at FROM phone_numbers WHERE number = $1
		LIMIT 1
	`

	var pn domain.PhoneNumber
	err := r.db.QueryRow(ctx, query, number, unsubscribed).Scan(
		&pn.Number,
		&pn.Unsubscribed,
		&pn.CreatedAt,
		&pn.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error resolving phone number", "error", err, "number", number)
		return nil, fmt.Errorf("failed to resolve phone number %s: %w", number, err)
	}
	return &pn, nil
}

// SetUnsubscribed persists the consent flag. Writing the current value again
// is a no-op at the row level, which keeps subscribe/unsubscribe idempotent.
func (r *PgPhoneNumberRepository) SetUnsubscribed(ctx context.Context, number string, unsubscribed bool) error {
	query := `UPDATE phone_numbers SET unsubscribed = $2, updated_at = NOW() WHERE number = $1`

	tag, err := r.db.Exec(ctx, query, number, unsubscribed)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating consent flag", "error", err, "number", number)
		return fmt.Errorf("failed to update consent for %s: %w", number, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("phone number %s: %w", number, domain.ErrNotFound)
	}
	return nil
}
