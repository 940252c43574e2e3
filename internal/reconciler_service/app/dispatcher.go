package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AradIT/sms-reconciler/internal/platform/messagebroker"
	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// EventDispatcher receives the engine's typed notification events. It is
// injected so tests can assert on emitted events deterministically.
type EventDispatcher interface {
	SubscriptionChanged(ctx context.Context, event domain.SubscriptionChangedEvent) error
	ResponseSent(ctx context.Context, event domain.ResponseSentEvent) error
}

// NATSDispatcher publishes notification events as JSON on versioned NATS
// subjects for external subscribers (analytics, compliance logging).
type NATSDispatcher struct {
	natsClient messagebroker.NATSClient
	logger     *slog.Logger
}

func NewNATSDispatcher(natsClient messagebroker.NATSClient, logger *slog.Logger) *NATSDispatcher {
	return &NATSDispatcher{
		natsClient: natsClient,
		logger:     logger.With("component", "nats_dispatcher"),
	}
}

func (d *NATSDispatcher) SubscriptionChanged(ctx context.Context, event domain.SubscriptionChangedEvent) error {
	return d.publish(ctx, domain.NATSSubscriptionChangedV1, event)
}

func (d *NATSDispatcher) ResponseSent(ctx context.Context, event domain.ResponseSentEvent) error {
	return d.publish(ctx, domain.NATSResponseSentV1, event)
}

func (d *NATSDispatcher) publish(ctx context.Context, subject string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for %s: %w", subject, err)
	}
	if err := d.natsClient.Publish(ctx, subject, payload); err != nil {
		d.logger.ErrorContext(ctx, "Failed to publish event", "subject", subject, "error", err)
		return err
	}
	d.logger.DebugContext(ctx, "Published event", "subject", subject)
	return nil
}
