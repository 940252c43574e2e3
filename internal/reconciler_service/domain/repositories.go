package domain

import "context"

// Repository interfaces for the persistent store. Lookup methods return
// (nil, nil) when the row does not exist; get-or-create methods must be
// race-safe under the store's native concurrency control so two concurrent
// reconciliations never produce duplicate reference rows.

// MessageRepository persists mirrored provider messages keyed by SID.
type MessageRepository interface {
	GetBySID(ctx context.Context, sid string) (*Message, error)
	// Upsert inserts the message on first reconciliation and converges an
	// existing row to the given snapshot on later ones.
	Upsert(ctx context.Context, msg *Message) error
}

// AccountRepository persists mirrored provider accounts keyed by SID.
type AccountRepository interface {
	GetBySID(ctx context.Context, sid string) (*Account, error)
	// Create inserts the account if absent; a concurrent insert of the same
	// SID is not an error (first write wins).
	Create(ctx context.Context, account *Account) error
}

// CurrencyRepository resolves price-unit codes.
type CurrencyRepository interface {
	GetOrCreate(ctx context.Context, code string) (*Currency, error)
}

// APIVersionRepository resolves API version date tags.
type APIVersionRepository interface {
	GetOrCreate(ctx context.Context, date string) (*APIVersion, error)
}

// ProviderErrorRepository resolves provider error codes. The message passed
// on first creation is kept; later calls never overwrite it.
type ProviderErrorRepository interface {
	GetOrCreate(ctx context.Context, code string, message string) (*ProviderError, error)
}

// MessagingServiceRepository resolves messaging-service SIDs.
type MessagingServiceRepository interface {
	GetOrCreate(ctx context.Context, sid string) (*MessagingService, error)
}

// PhoneNumberRepository owns the consent registry. Numbers passed in must
// already be normalized.
type PhoneNumberRepository interface {
	GetOrCreate(ctx context.Context, number string, unsubscribed bool) (*PhoneNumber, error)
	SetUnsubscribed(ctx context.Context, number string, unsubscribed bool) error
}

// ActionRepository resolves auto-responder trigger keywords.
type ActionRepository interface {
	// GetActiveByName looks up an active Action by its normalized name.
	GetActiveByName(ctx context.Context, name string) (*Action, error)
	Create(ctx context.Context, action *Action) error
}

// ResponseRepository owns reply texts and the single-active-per-Action
// invariant.
type ResponseRepository interface {
	// GetActiveByAction returns the Action's single active Response, or
	// (nil, nil) when none exists.
	GetActiveByAction(ctx context.Context, actionID int64) (*Response, error)
	Create(ctx context.Context, response *Response) error
	// SetActive activates the given Response and, in the same transaction,
	// deactivates any previously active sibling of the same Action.
	SetActive(ctx context.Context, responseID int64) error
}
