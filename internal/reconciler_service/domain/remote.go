package domain

import "time"

// Remote representations as returned by the provider's REST API. Field
// shapes follow the provider wire format: timestamps are RFC 1123 strings,
// counts are strings, a missing error code is a null integer.

// RemoteMessage is the provider's current snapshot of one message.
type RemoteMessage struct {
	SID                 string `json:"sid"`
	AccountSID          string `json:"account_sid"`
	MessagingServiceSID string `json:"messaging_service_sid,omitempty"`
	DateCreated         string `json:"date_created"`
	DateUpdated         string `json:"date_updated"`
	DateSent            string `json:"date_sent,omitempty"`
	To                  string `json:"to"`
	From                string `json:"from"`
	Body                string `json:"body"`
	NumSegments         string `json:"num_segments"`
	NumMedia            string `json:"num_media"`
	Status              string `json:"status"`
	ErrorCode           *int   `json:"error_code"`
	ErrorMessage        string `json:"error_message,omitempty"`
	Direction           string `json:"direction"`
	Price               string `json:"price,omitempty"`
	PriceUnit           string `json:"price_unit"`
	APIVersion          string `json:"api_version"`
}

// RemoteAccount is the provider's current snapshot of one account.
type RemoteAccount struct {
	SID             string `json:"sid"`
	FriendlyName    string `json:"friendly_name"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	OwnerAccountSID string `json:"owner_account_sid"`
	DateCreated     string `json:"date_created"`
	DateUpdated     string `json:"date_updated"`
}

// remoteTimeLayout is the RFC 1123 variant the provider uses on the wire,
// e.g. "Mon, 02 Jan 2006 15:04:05 -0700".
const remoteTimeLayout = time.RFC1123Z

// ParseRemoteTime parses a provider timestamp string. An empty string yields
// (nil, nil), matching fields like date_sent being absent for queued
// messages.
func ParseRemoteTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(remoteTimeLayout, value)
	if err != nil {
		return nil, err
	}
	utc := t.UTC()
	return &utc, nil
}

// FormatRemoteTime renders a timestamp in the provider wire format.
func FormatRemoteTime(t time.Time) string {
	return t.UTC().Format(remoteTimeLayout)
}
