package http

// WebhookRequest is the transport-level payload both webhook endpoints
// consume: the provider supplies a message SID per callback, form-encoded.
// The engine itself never parses transport payloads beyond this.
type WebhookRequest struct {
	MessageSID string `validate:"required,min=34,max=34"`
}
