package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// MessageStatus defines the possible states of a mirrored provider message.
type MessageStatus string

const (
	MessageStatusAccepted    MessageStatus = "accepted"
	MessageStatusQueued      MessageStatus = "queued"
	MessageStatusSending     MessageStatus = "sending"
	MessageStatusSent        MessageStatus = "sent"
	MessageStatusReceiving   MessageStatus = "receiving"
	MessageStatusReceived    MessageStatus = "received"
	MessageStatusDelivered   MessageStatus = "delivered"
	MessageStatusUndelivered MessageStatus = "undelivered"
	MessageStatusFailed      MessageStatus = "failed"
	// MessageStatusUnknown is the sentinel used when the remote representation
	// carried no status label at all. It is distinct from every named status.
	MessageStatusUnknown MessageStatus = "unknown"
)

// Value implements the driver.Valuer interface for MessageStatus.
func (ms MessageStatus) Value() (driver.Value, error) {
	return string(ms), nil
}

// Scan implements the sql.Scanner interface for MessageStatus.
func (ms *MessageStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan MessageStatus: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*ms = MessageStatus(strVal)
	switch *ms {
	case MessageStatusAccepted, MessageStatusQueued, MessageStatusSending, MessageStatusSent,
		MessageStatusReceiving, MessageStatusReceived, MessageStatusDelivered,
		MessageStatusUndelivered, MessageStatusFailed, MessageStatusUnknown:
		return nil
	default:
		return fmt.Errorf("unknown MessageStatus value: %s", strVal)
	}
}

// StatusFromLabel maps a remote status label to the local enum. The second
// return value reports whether the label was recognized; callers decide how
// to surface unmapped labels.
func StatusFromLabel(label string) (MessageStatus, bool) {
	switch MessageStatus(label) {
	case MessageStatusAccepted, MessageStatusQueued, MessageStatusSending, MessageStatusSent,
		MessageStatusReceiving, MessageStatusReceived, MessageStatusDelivered,
		MessageStatusUndelivered, MessageStatusFailed:
		return MessageStatus(label), true
	default:
		return MessageStatusUnknown, false
	}
}

// MessageDirection defines the direction of a mirrored provider message.
type MessageDirection string

const (
	DirectionInbound       MessageDirection = "inbound"
	DirectionOutboundAPI   MessageDirection = "outbound-api"
	DirectionOutboundCall  MessageDirection = "outbound-call"
	DirectionOutboundReply MessageDirection = "outbound-reply"
	// DirectionUnknown is the sentinel for an unmapped remote direction label.
	// Callers must treat it as a data-quality signal, never as inbound.
	DirectionUnknown MessageDirection = "unknown"
)

// Value implements the driver.Valuer interface for MessageDirection.
func (md MessageDirection) Value() (driver.Value, error) {
	return string(md), nil
}

// Scan implements the sql.Scanner interface for MessageDirection.
func (md *MessageDirection) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan MessageDirection: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*md = MessageDirection(strVal)
	switch *md {
	case DirectionInbound, DirectionOutboundAPI, DirectionOutboundCall, DirectionOutboundReply, DirectionUnknown:
		return nil
	default:
		return fmt.Errorf("unknown MessageDirection value: %s", strVal)
	}
}

// DirectionFromLabel maps a remote direction label to the local enum. The
// second return value reports whether the label was recognized.
func DirectionFromLabel(label string) (MessageDirection, bool) {
	switch MessageDirection(label) {
	case DirectionInbound, DirectionOutboundAPI, DirectionOutboundCall, DirectionOutboundReply:
		return MessageDirection(label), true
	default:
		return DirectionUnknown, false
	}
}

// Subscription keyword vocabularies. Matching is exact after trimming and
// uppercasing the message body; "STOPPED" does not unsubscribe anyone.
var (
	UnsubscribeKeywords = map[string]struct{}{
		"STOP": {}, "STOPALL": {}, "UNSUBSCRIBE": {}, "CANCEL": {}, "END": {}, "QUIT": {},
	}
	SubscribeKeywords = map[string]struct{}{
		"START": {}, "YES": {},
	}
)

// NormalizeBody prepares a message body for keyword and action matching.
func NormalizeBody(body string) string {
	return strings.ToUpper(strings.TrimSpace(body))
}

// DefaultPrice is stored when the remote representation carries no price.
// The column is NUMERIC(6,5) and non-nullable.
const DefaultPrice = "0.0"

// MaxBodyLength is the single-segment SMS body limit enforced locally.
const MaxBodyLength = 160

// Message mirrors one remote provider message. The provider SID is the
// primary key; reconciliation creates the row once and only updates it
// afterwards, always converging to the latest remote snapshot.
type Message struct {
	SID                 string           `json:"sid"`
	DateCreated         time.Time        `json:"date_created"`
	DateUpdated         time.Time        `json:"date_updated"`
	DateSent            *time.Time       `json:"date_sent,omitempty"`
	AccountSID          string           `json:"account_sid"`
	MessagingServiceSID *string          `json:"messaging_service_sid,omitempty"`
	FromNumber          string           `json:"from"`
	ToNumber            string           `json:"to"`
	Body                string           `json:"body"`
	NumMedia            int              `json:"num_media"`
	NumSegments         int              `json:"num_segments"`
	Status              MessageStatus    `json:"status"`
	ErrorCode           *string          `json:"error_code,omitempty"`
	Direction           MessageDirection `json:"direction"`
	Price               string           `json:"price"`
	CurrencyCode        string           `json:"currency"`
	APIVersionDate      string           `json:"api_version"`
}

// SubscriptionKeyword classifies the message body against the subscribe and
// unsubscribe vocabularies. It returns (unsubscribed, matched); matched is
// false for ordinary bodies and for non-inbound messages.
func (m *Message) SubscriptionKeyword() (bool, bool) {
	if m.Direction != DirectionInbound {
		return false, false
	}
	body := NormalizeBody(m.Body)
	if _, ok := UnsubscribeKeywords[body]; ok {
		return true, true
	}
	if _, ok := SubscribeKeywords[body]; ok {
		return false, true
	}
	return false, false
}
