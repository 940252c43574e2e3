package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// Reference-entity repositories. Each GetOrCreate is a single
// insert-if-absent-then-read statement, so two concurrent reconciliations
// resolving the same natural key cannot create duplicate rows, and the
// first-seen values win.

type PgCurrencyRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgCurrencyRepository(db PGXPool, logger *slog.Logger) domain.CurrencyRepository {
	return &PgCurrencyRepository{db: db, logger: logger.With("component", "currency_repository_pg")}
}

func (r *PgCurrencyRepository) GetOrCreate(ctx context.Context, code string) (*domain.Currency, error) {
	query := `
		WITH ins AS (
			INSERT INTO currencies (code, created_at) VALUES ($1, NOW())
			ON CONFLICT (code) DO NOTHING
			RETURNING code, created_at
		)
		SELECT code, created_at FROM ins
		UNION ALL
		SELECT code, created_at FROM currencies WHERE code = $1
		LIMIT 1
	`

	var c domain.Currency
	if err := r.db.QueryRow(ctx, query, code).Scan(&c.Code, &c.CreatedAt); err != nil {
		r.logger.ErrorContext(ctx, "Error resolving currency", "error", err, "code", code)
		return nil, fmt.Errorf("failed to resolve currency %s: %w", code, err)
	}
	return &c, nil
}

type PgAPIVersionRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgAPIVersionRepository(db PGXPool, logger *slog.Logger) domain.APIVersionRepository {
	return &PgAPIVersionRepository{db: db, logger: logger.With("component", "api_version_repository_pg")}
}

func (r *PgAPIVersionRepository) GetOrCreate(ctx context.Context, date string) (*domain.APIVersion, error) {
	query := `
		WITH ins AS (
			INSERT INTO api_versions (date, created_at) VALUES ($1, NOW())
			ON CONFLICT (date) DO NOTHING
			RETURNING date, created_at
		)
		SELECT date, created_at FROM ins
		UNION ALL
		SELECT date, created_at FROM api_versions WHERE date = $1
		LIMIT 1
	`

	var v domain.APIVersion
	if err := r.db.QueryRow(ctx, query, date).Scan(&v.Date, &v.CreatedAt); err != nil {
		r.logger.ErrorContext(ctx, "Error resolving API version", "error", err, "date", date)
		return nil, fmt.Errorf("failed to resolve api version %s: %w", date, err)
	}
	return &v, nil
}

type PgProviderErrorRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgProviderErrorRepository(db PGXPool, logger *slog.Logger) domain.ProviderErrorRepository {
	return &PgProviderErrorRepository{db: db, logger: logger.With("component", "provider_error_repository_pg")}
}

// GetOrCreate resolves an error code. The message stored on first creation
// is kept; a different message seen later does not overwrite it.
func (r *PgProviderErrorRepository) GetOrCreate(ctx context.Context, code string, message string) (*domain.ProviderError, error) {
	query := `
		WITH ins AS (
			INSERT INTO provider_errors (code, message, created_at) VALUES ($1, $2, NOW())
			ON CONFLICT (code) DO NOTHING
			RETURNING code, message, created_at
		)
		SELECT code, message, created_at FROM ins
		UNION ALL
		SELECT code, message, created_at FROM provider_errors WHERE code = $1
		LIMIT 1
	`

	var e domain.ProviderError
	if err := r.db.QueryRow(ctx, query, code, message).Scan(&e.Code, &e.Message, &e.CreatedAt); err != nil {
		r.logger.ErrorContext(ctx, "Error resolving provider error", "error", err, "code", code)
		return nil, fmt.Errorf("failed to resolve provider error %s: %w", code, err)
	}
	return &e, nil
}

type PgMessagingServiceRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgMessagingServiceRepository(db PGXPool, logger *slog.Logger) domain.MessagingServiceRepository {
	return &PgMessagingServiceRepository{db: db, logger: logger.With("component", "messaging_service_repository_pg")}
}

func (r *PgMessagingServiceRepository) GetOrCreate(ctx context.Context, sid string) (*domain.MessagingService, error) {
	query := `
		WITH ins AS (
			INSERT INTO messaging_services (sid, created_at) VALUES ($1, NOW())
			ON CONFLICT (sid) DO NOTHING
			RETURNING sid, created_at
		)
		SELECT sid, created_at FROM ins
		UNION ALL
		SELECT sid, created_at FROM messaging_services WHERE sid = $1
		LIMIT 1
	`

	var s domain.MessagingService
	if err := r.db.QueryRow(ctx, query, sid).Scan(&s.SID, &s.CreatedAt); err != nil {
		r.logger.ErrorContext(ctx, "Error resolving messaging service", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to resolve messaging service %s: %w", sid, err)
	}
	return &s, nil
}
