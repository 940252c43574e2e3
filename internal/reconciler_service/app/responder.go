package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// AutoResponder replies to inbound messages from subscribed senders. The
// trigger Action is resolved by normalized body with a reserved UNKNOWN
// fallback; its single active Response is sent back through the gateway.
type AutoResponder struct {
	actions       domain.ActionRepository
	responses     domain.ResponseRepository
	subscriptions *SubscriptionRegistry
	gateway       *FetchGateway
	reconciler    *Reconciler
	dispatcher    EventDispatcher
	logger        *slog.Logger
}

func NewAutoResponder(
	actions domain.ActionRepository,
	responses domain.ResponseRepository,
	subscriptions *SubscriptionRegistry,
	gateway *FetchGateway,
	reconciler *Reconciler,
	dispatcher EventDispatcher,
	logger *slog.Logger,
) *AutoResponder {
	return &AutoResponder{
		actions:       actions,
		responses:     responses,
		subscriptions: subscriptions,
		gateway:       gateway,
		reconciler:    reconciler,
		dispatcher:    dispatcher,
		logger:        logger.With("component", "auto_responder"),
	}
}

// MaybeRespond sends the configured reply for an inbound message. It returns
// the emitted event, or nil when the message is not inbound or the sender
// has unsubscribed. A resolved Action with no active Response is a host
// configuration error and fails loudly.
func (a *AutoResponder) MaybeRespond(ctx context.Context, msg *domain.Message) (*domain.ResponseSentEvent, error) {
	if msg.Direction != domain.DirectionInbound {
		autoResponsesTotal.WithLabelValues("skipped_direction").Inc()
		return nil, nil
	}

	sender, err := a.subscriptions.Resolve(ctx, msg.FromNumber)
	if err != nil {
		autoResponsesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if sender.Unsubscribed {
		autoResponsesTotal.WithLabelValues("skipped_unsubscribed").Inc()
		a.logger.InfoContext(ctx, "Sender unsubscribed, not responding", "sid", msg.SID, "from", msg.FromNumber)
		return nil, nil
	}

	action, err := a.resolveAction(ctx, msg.Body)
	if err != nil {
		autoResponsesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	response, err := a.responses.GetActiveByAction(ctx, action.ID)
	if err != nil {
		autoResponsesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if response == nil {
		autoResponsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("action %s: %w", action.Name, domain.ErrNoActiveResponse)
	}

	// Reply goes back to the sender, from the number the inbound hit.
	remote, err := a.gateway.SendMessage(ctx, response.Body, msg.FromNumber, msg.ToNumber)
	if err != nil {
		autoResponsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to send response for %s: %w", msg.SID, err)
	}

	if _, _, err := a.reconciler.Materialize(ctx, remote); err != nil {
		// The send already happened; surface the mirror failure without
		// pretending the response was not sent.
		autoResponsesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("response sent but failed to mirror %s: %w", remote.SID, err)
	}
	autoResponsesTotal.WithLabelValues("sent").Inc()

	event := domain.ResponseSentEvent{
		EventID:    uuid.New(),
		Action:     *action,
		Message:    *msg,
		OccurredAt: time.Now().UTC(),
	}
	if err := a.dispatcher.ResponseSent(ctx, event); err != nil {
		eventPublishFailuresTotal.Inc()
		a.logger.ErrorContext(ctx, "Failed to publish response sent event", "sid", msg.SID, "error", err)
	}

	a.logger.InfoContext(ctx, "Auto-response sent",
		"inbound_sid", msg.SID, "outbound_sid", remote.SID, "action", action.Name)
	return &event, nil
}

// resolveAction matches the body against configured triggers, falling back
// to the reserved UNKNOWN Action. A missing UNKNOWN Action means the host
// configuration is incomplete.
func (a *AutoResponder) resolveAction(ctx context.Context, body string) (*domain.Action, error) {
	action, err := a.actions.GetActiveByName(ctx, body)
	if err != nil {
		return nil, err
	}
	if action != nil {
		return action, nil
	}

	fallback, err := a.actions.GetActiveByName(ctx, domain.UnknownActionName)
	if err != nil {
		return nil, err
	}
	if fallback == nil {
		return nil, fmt.Errorf("reserved action %s is not provisioned: %w", domain.UnknownActionName, domain.ErrNotFound)
	}
	return fallback, nil
}
