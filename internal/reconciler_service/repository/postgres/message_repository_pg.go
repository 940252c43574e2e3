package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

type PgMessageRepository struct {
	db     PGXPool
	logger *slog.Logger
}

func NewPgMessageRepository(db PGXPool, logger *slog.Logger) domain.MessageRepository {
	return &PgMessageRepository{db: db, logger: logger.With("component", "message_repository_pg")}
}

const messageColumns = `sid, date_created, date_updated, date_sent, account_sid, messaging_service_sid,
	       from_number, to_number, body, num_media, num_segments, status, error_code,
	       direction, price::text, currency_code, api_version_date`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(
		&m.SID,
		&m.DateCreated,
		&m.DateUpdated,
		&m.DateSent,
		&m.AccountSID,
		&m.MessagingServiceSID,
		&m.FromNumber,
		&m.ToNumber,
		&m.Body,
		&m.NumMedia,
		&m.NumSegments,
		&m.Status,
		&m.ErrorCode,
		&m.Direction,
		&m.Price,
		&m.CurrencyCode,
		&m.APIVersionDate,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetBySID returns the mirrored message, or (nil, nil) when the SID has
// never been reconciled.
func (r *PgMessageRepository) GetBySID(ctx context.Context, sid string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE sid = $1`

	msg, err := scanMessage(r.db.QueryRow(ctx, query, sid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error querying message by SID", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get message %s: %w", sid, err)
	}
	return msg, nil
}

// Upsert inserts the message on first reconciliation and converges an
// existing row to the snapshot afterwards. The row's date_created survives
// conflicts; date_updated always moves forward.
func (r *PgMessageRepository) Upsert(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (
			sid, date_created, date_updated, date_sent, account_sid, messaging_service_sid,
			from_number, to_number, body, num_media, num_segments, status, error_code,
			direction, price, currency_code, api_version_date
		) VALUES (
			$1, NOW(), NOW(), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		ON CONFLICT (sid) DO UPDATE SET
			date_updated = NOW(),
			date_sent = EXCLUDED.date_sent,
			account_sid = EXCLUDED.account_sid,
			messaging_service_sid = EXCLUDED.messaging_service_sid,
			from_number = EXCLUDED.from_number,
			to_number = EXCLUDED.to_number,
			body = EXCLUDED.body,
			num_media = EXCLUDED.num_media,
			num_segments = EXCLUDED.num_segments,
			status = EXCLUDED.status,
			error_code = EXCLUDED.error_code,
			direction = EXCLUDED.direction,
			price = EXCLUDED.price,
			currency_code = EXCLUDED.currency_code,
			api_version_date = EXCLUDED.api_version_date
	`

	_, err := r.db.Exec(ctx, query,
		msg.SID,
		msg.DateSent,
		msg.AccountSID,
		msg.MessagingServiceSID,
		msg.FromNumber,
		msg.ToNumber,
		msg.Body,
		msg.NumMedia,
		msg.NumSegments,
		msg.Status,
		msg.ErrorCode,
		msg.Direction,
		msg.Price,
		msg.CurrencyCode,
		msg.APIVersionDate,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error upserting message", "error", err, "sid", msg.SID)
		return fmt.Errorf("failed to upsert message %s: %w", msg.SID, err)
	}
	return nil
}
