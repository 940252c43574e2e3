package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NATSSubscriptionChangedV1 = "reconciler.subscription.changed.v1"
	NATSResponseSentV1        = "reconciler.response.sent.v1"
)

// SubscriptionChangedEvent is emitted when an inbound keyword flips a phone
// number's consent state. Unsubscribed reports the new state.
type SubscriptionChangedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	Message      Message   `json:"message"`
	Unsubscribed bool      `json:"unsubscribed"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ResponseSentEvent is emitted after the auto-responder issues an outbound
// reply for an inbound message.
type ResponseSentEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Action     Action    `json:"action"`
	Message    Message   `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
