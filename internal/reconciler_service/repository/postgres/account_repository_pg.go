package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

type PgAccountRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgAccountRepository(db PGXPool, logger *slog.Logger) domain.AccountRepository {
	return &PgAccountRepository{db: db, logger: logger.With("component", "account_repository_pg")}
}

// GetBySID returns the mirrored account, or (nil, nil) when absent.
func (r *PgAccountRepository) GetBySID(ctx context.Context, sid string) (*domain.Account, error) {
	query := `SELECT sid, friendly_name, account_type, status, owner_account_sid, created_at, updated_at
	          FROM accounts WHERE sid = $1`

	var a domain.Account
	err := r.db.QueryRow(ctx, query, sid).Scan(
		&a.SID,
		&a.FriendlyName,
		&a.Type,
		&a.Status,
		&a.OwnerAccountSID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error querying account by SID", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get account %s: %w", sid, err)
	}
	return &a, nil
}

// Create inserts the account if absent. A concurrent reconciliation that
// inserted the same SID first wins; the conflict is not an error.
func (r *PgAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (sid, friendly_name, account_type, status, owner_account_sid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (sid) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		account.SID,
		account.FriendlyName,
		account.Type,
		account.Status,
		account.OwnerAccountSID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error inserting account", "error", err, "sid", account.SID)
		return fmt.Errorf("failed to create account %s: %w", account.SID, err)
	}
	return nil
}
