package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// SubscriptionRegistry owns consent state per phone number. Entries are
// created lazily on first reference; subscribe/unsubscribe are idempotent
// and the flag is the only externally observable effect.
type SubscriptionRegistry struct {
	phoneNumbers domain.PhoneNumberRepository
	logger       *slog.Logger
}

func NewSubscriptionRegistry(phoneNumbers domain.PhoneNumberRepository, logger *slog.Logger) *SubscriptionRegistry {
	return &SubscriptionRegistry{
		phoneNumbers: phoneNumbers,
		logger:       logger.With("component", "subscription_registry"),
	}
}

// Resolve normalizes the handle and returns its registry entry, creating it
// subscribed (unsubscribed=false) on first reference.
func (s *SubscriptionRegistry) Resolve(ctx context.Context, rawNumber string) (*domain.PhoneNumber, error) {
	number, err := domain.NormalizePhoneNumber(rawNumber)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve phone number: %w", err)
	}
	return s.phoneNumbers.GetOrCreate(ctx, number, false)
}

// Subscribe clears the unsubscribed flag.
func (s *SubscriptionRegistry) Subscribe(ctx context.Context, pn *domain.PhoneNumber) error {
	if err := s.phoneNumbers.SetUnsubscribed(ctx, pn.Number, false); err != nil {
		return err
	}
	pn.Unsubscribed = false
	s.logger.InfoContext(ctx, "Phone number subscribed", "number", pn.Number)
	return nil
}

// Unsubscribe sets the unsubscribed flag.
func (s *SubscriptionRegistry) Unsubscribe(ctx context.Context, pn *domain.PhoneNumber) error {
	if err := s.phoneNumbers.SetUnsubscribed(ctx, pn.Number, true); err != nil {
		return err
	}
	pn.Unsubscribed = true
	s.logger.InfoContext(ctx, "Phone number unsubscribed", "number", pn.Number)
	return nil
}
