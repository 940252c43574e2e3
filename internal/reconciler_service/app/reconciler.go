package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// Reconciler materializes remote message state into local entities. Given a
// remote SID or an already-fetched representation, it produces or updates
// the local Message row, resolving every foreign reference through the
// identity cache and the subscription registry, then evaluates subscription
// keywords against the finalized direction and body.
type Reconciler struct {
	messages      domain.MessageRepository
	identity      *IdentityCache
	subscriptions *SubscriptionRegistry
	gateway       *FetchGateway
	dispatcher    EventDispatcher
	logger        *slog.Logger
}

func NewReconciler(
	messages domain.MessageRepository,
	identity *IdentityCache,
	subscriptions *SubscriptionRegistry,
	gateway *FetchGateway,
	dispatcher EventDispatcher,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		messages:      messages,
		identity:      identity,
		subscriptions: subscriptions,
		gateway:       gateway,
		dispatcher:    dispatcher,
		logger:        logger.With("component", "reconciler"),
	}
}

// GetOrCreate looks up the local Message by SID, reconciling a new one from
// the remote provider when absent. The returned flag reports whether the row
// was newly created.
func (r *Reconciler) GetOrCreate(ctx context.Context, sid string) (*domain.Message, bool, error) {
	return r.getOrCreate(ctx, sid, nil)
}

// Materialize is GetOrCreate for an already-fetched remote representation;
// no provider call is made for the message itself.
func (r *Reconciler) Materialize(ctx context.Context, remote *domain.RemoteMessage) (*domain.Message, bool, error) {
	return r.getOrCreate(ctx, remote.SID, remote)
}

func (r *Reconciler) getOrCreate(ctx context.Context, sid string, remote *domain.RemoteMessage) (*domain.Message, bool, error) {
	existing, err := r.messages.GetBySID(ctx, sid)
	if err != nil {
		reconciliationsTotal.WithLabelValues("error").Inc()
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	msg := &domain.Message{SID: sid}
	if err := r.Sync(ctx, msg, remote); err != nil {
		return nil, false, err
	}
	reconciliationsTotal.WithLabelValues("created").Inc()
	return msg, true, nil
}

// Sync converges the local Message to the latest remote snapshot. When no
// representation is supplied it is fetched through the gateway. The row is
// persisted only after every reference resolved, so a failing resolution
// step never leaves a partially-written Message committed. Subscription
// evaluation runs after the persist; its failure is surfaced but does not
// roll the reconciliation back.
func (r *Reconciler) Sync(ctx context.Context, msg *domain.Message, remote *domain.RemoteMessage) error {
	if remote == nil {
		fetched, err := r.gateway.FetchMessage(ctx, msg.SID)
		if err != nil {
			reconciliationsTotal.WithLabelValues("error").Inc()
			return err
		}
		remote = fetched
	}

	sender, err := r.applyRemote(ctx, msg, remote)
	if err != nil {
		reconciliationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to reconcile message %s: %w", msg.SID, err)
	}

	if err := r.messages.Upsert(ctx, msg); err != nil {
		reconciliationsTotal.WithLabelValues("error").Inc()
		return err
	}
	reconciliationsTotal.WithLabelValues("updated").Inc()

	return r.evaluateSubscription(ctx, msg, sender)
}

// applyRemote maps the remote snapshot onto the local Message, resolving all
// reference entities. It returns the resolved sender registry entry so the
// keyword evaluation that follows sees the same row.
func (r *Reconciler) applyRemote(ctx context.Context, msg *domain.Message, remote *domain.RemoteMessage) (*domain.PhoneNumber, error) {
	dateSent, err := domain.ParseRemoteTime(remote.DateSent)
	if err != nil {
		return nil, fmt.Errorf("bad date_sent %q: %w", remote.DateSent, err)
	}
	msg.DateSent = dateSent

	account, err := r.identity.ResolveAccount(ctx, remote.AccountSID)
	if err != nil {
		return nil, err
	}
	msg.AccountSID = account.SID

	msg.MessagingServiceSID = nil
	if remote.MessagingServiceSID != "" {
		service, err := r.identity.ResolveMessagingService(ctx, remote.MessagingServiceSID)
		if err != nil {
			return nil, err
		}
		msg.MessagingServiceSID = &service.SID
	}

	if msg.NumMedia, err = parseCount("num_media", remote.NumMedia); err != nil {
		return nil, err
	}
	if msg.NumSegments, err = parseCount("num_segments", remote.NumSegments); err != nil {
		return nil, err
	}

	// No status label at all means the provider does not know yet; that is
	// exactly the unknown sentinel. An unmapped label also lands on unknown
	// but is counted as a data-quality signal.
	if remote.Status == "" {
		msg.Status = domain.MessageStatusUnknown
	} else {
		status, ok := domain.StatusFromLabel(remote.Status)
		if !ok {
			unmappedLabelsTotal.WithLabelValues("status").Inc()
			r.logger.WarnContext(ctx, "Unmapped remote status label", "sid", msg.SID, "label", remote.Status)
		}
		msg.Status = status
	}

	msg.ErrorCode = nil
	if remote.ErrorCode != nil {
		code := strconv.Itoa(*remote.ErrorCode)
		provErr, err := r.identity.ResolveError(ctx, code, remote.ErrorMessage)
		if err != nil {
			return nil, err
		}
		msg.ErrorCode = &provErr.Code
	}

	direction, ok := domain.DirectionFromLabel(remote.Direction)
	if !ok {
		unmappedLabelsTotal.WithLabelValues("direction").Inc()
		r.logger.WarnContext(ctx, "Unmapped remote direction label", "sid", msg.SID, "label", remote.Direction)
	}
	msg.Direction = direction

	if remote.Price == "" {
		msg.Price = domain.DefaultPrice
	} else {
		msg.Price = remote.Price
	}

	currency, err := r.identity.ResolveCurrency(ctx, remote.PriceUnit)
	if err != nil {
		return nil, err
	}
	msg.CurrencyCode = currency.Code

	apiVersion, err := r.identity.ResolveAPIVersion(ctx, remote.APIVersion)
	if err != nil {
		return nil, err
	}
	msg.APIVersionDate = apiVersion.Date

	sender, err := r.subscriptions.Resolve(ctx, remote.From)
	if err != nil {
		return nil, fmt.Errorf("bad from number: %w", err)
	}
	msg.FromNumber = sender.Number

	recipient, err := r.subscriptions.Resolve(ctx, remote.To)
	if err != nil {
		return nil, fmt.Errorf("bad to number: %w", err)
	}
	msg.ToNumber = recipient.Number

	msg.Body = remote.Body
	return sender, nil
}

// evaluateSubscription flips the sender's consent state when an inbound body
// exactly matches the subscribe or unsubscribe vocabulary, and emits a
// SubscriptionChanged event. Event publication failures are logged and
// counted but do not fail the evaluation.
func (r *Reconciler) evaluateSubscription(ctx context.Context, msg *domain.Message, sender *domain.PhoneNumber) error {
	unsubscribed, matched := msg.SubscriptionKeyword()
	if !matched {
		return nil
	}

	if unsubscribed {
		if err := r.subscriptions.Unsubscribe(ctx, sender); err != nil {
			return fmt.Errorf("failed to unsubscribe %s: %w", sender.Number, err)
		}
	} else {
		if err := r.subscriptions.Subscribe(ctx, sender); err != nil {
			return fmt.Errorf("failed to subscribe %s: %w", sender.Number, err)
		}
	}
	subscriptionChangesTotal.WithLabelValues(strconv.FormatBool(unsubscribed)).Inc()

	event := domain.SubscriptionChangedEvent{
		EventID:      uuid.New(),
		Message:      *msg,
		Unsubscribed: unsubscribed,
		OccurredAt:   time.Now().UTC(),
	}
	if err := r.dispatcher.SubscriptionChanged(ctx, event); err != nil {
		eventPublishFailuresTotal.Inc()
		r.logger.ErrorContext(ctx, "Failed to publish subscription change", "sid", msg.SID, "error", err)
	}
	return nil
}

func parseCount(field, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad %s value %q", field, value)
	}
	return n, nil
}
