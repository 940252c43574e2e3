package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// MessageReconciler is the engine surface the webhook endpoints drive.
type MessageReconciler interface {
	GetOrCreate(ctx context.Context, sid string) (*domain.Message, bool, error)
	Sync(ctx context.Context, msg *domain.Message, remote *domain.RemoteMessage) error
}

// Responder is the auto-response surface behind the inbound endpoint.
type Responder interface {
	MaybeRespond(ctx context.Context, msg *domain.Message) (*domain.ResponseSentEvent, error)
}

// WebhookHandler terminates the provider's status and inbound callbacks.
// Request signature verification is the host proxy's concern, not ours.
type WebhookHandler struct {
	reconciler  MessageReconciler
	responder   Responder
	autoRespond bool
	logger      *slog.Logger
	validate    *validator.Validate
}

func NewWebhookHandler(reconciler MessageReconciler, responder Responder, autoRespond bool, logger *slog.Logger, validate *validator.Validate) *WebhookHandler {
	return &WebhookHandler{
		reconciler:  reconciler,
		responder:   responder,
		autoRespond: autoRespond,
		logger:      logger.With("handler", "webhook"),
		validate:    validate,
	}
}

// HandleStatusCallback reconciles the message named by a delivery-status
// callback. POST /callbacks/sms/status
func (h *WebhookHandler) HandleStatusCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	req, ok := h.decode(w, r, logger)
	if !ok {
		return
	}

	if _, err := h.reconcile(ctx, req.MessageSID); err != nil {
		logger.ErrorContext(ctx, "Failed to reconcile message from status callback", "sid", req.MessageSID, "error", err)
		http.Error(w, "Failed to reconcile message", http.StatusInternalServerError)
		return
	}

	logger.InfoContext(ctx, "Status callback reconciled", "sid", req.MessageSID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleInboundMessage reconciles an inbound message and, when enabled,
// drives the auto-responder with it. POST /callbacks/sms/inbound
func (h *WebhookHandler) HandleInboundMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	req, ok := h.decode(w, r, logger)
	if !ok {
		return
	}

	msg, err := h.reconcile(ctx, req.MessageSID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to reconcile inbound message", "sid", req.MessageSID, "error", err)
		http.Error(w, "Failed to reconcile message", http.StatusInternalServerError)
		return
	}

	if h.autoRespond {
		if _, err := h.responder.MaybeRespond(ctx, msg); err != nil {
			// The reconciliation is already committed; a responder failure
			// is its own fault domain but the provider should still see it.
			logger.ErrorContext(ctx, "Auto-responder failed", "sid", msg.SID, "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrNoActiveResponse) || errors.Is(err, domain.ErrNotFound) {
				status = http.StatusFailedDependency
			}
			http.Error(w, "Auto-responder failed", status)
			return
		}
	}

	logger.InfoContext(ctx, "Inbound message processed", "sid", req.MessageSID)
	w.WriteHeader(http.StatusNoContent)
}

// reconcile is the shared get-or-create-then-resync flow: an already known
// message is converged to the latest remote snapshot instead of returned
// stale.
func (h *WebhookHandler) reconcile(ctx context.Context, sid string) (*domain.Message, error) {
	msg, created, err := h.reconciler.GetOrCreate(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !created {
		if err := h.reconciler.Sync(ctx, msg, nil); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (h *WebhookHandler) decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*WebhookRequest, bool) {
	if err := r.ParseForm(); err != nil {
		logger.WarnContext(r.Context(), "Failed to parse webhook form", "error", err)
		http.Error(w, "Failed to parse form data", http.StatusBadRequest)
		return nil, false
	}

	req := &WebhookRequest{MessageSID: r.PostFormValue("MessageSid")}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		logger.WarnContext(r.Context(), "Webhook request failed validation", "error", err)
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return req, true
}
