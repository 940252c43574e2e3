package domain

import "time"

// Reference entities resolved via get-or-create during reconciliation.
// They are shared and long-lived; first write wins, no update-on-found.

// APIVersion is a unique calendar date tag such as "2010-04-01".
type APIVersion struct {
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// Currency is an ISO-like price-unit code such as "USD".
type Currency struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// ProviderError is a provider error code plus its human message. The
// message seen on first creation is kept for the lifetime of the code.
type ProviderError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagingService is an opaque remote messaging-service identifier.
type MessagingService struct {
	SID       string    `json:"sid"`
	CreatedAt time.Time `json:"created_at"`
}
