package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

const testMessageSID = "SM00000000000000000000000000000001"

type MockMessageReconciler struct {
	mock.Mock
}

func (m *MockMessageReconciler) GetOrCreate(ctx context.Context, sid string) (*domain.Message, bool, error) {
	args := m.Called(ctx, sid)
	var msg *domain.Message
	if args.Get(0) != nil {
		msg = args.Get(0).(*domain.Message)
	}
	return msg, args.Bool(1), args.Error(2)
}

func (m *MockMessageReconciler) Sync(ctx context.Context, msg *domain.Message, remote *domain.RemoteMessage) error {
	args := m.Called(ctx, msg, remote)
	return args.Error(0)
}

type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) MaybeRespond(ctx context.Context, msg *domain.Message) (*domain.ResponseSentEvent, error) {
	args := m.Called(ctx, msg)
	var event *domain.ResponseSentEvent
	if args.Get(0) != nil {
		event = args.Get(0).(*domain.ResponseSentEvent)
	}
	return event, args.Error(1)
}

func setupWebhookTest(t *testing.T, autoRespond bool) (*WebhookHandler, *MockMessageReconciler, *MockResponder) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reconciler := new(MockMessageReconciler)
	responder := new(MockResponder)
	handler := NewWebhookHandler(reconciler, responder, autoRespond, logger, validator.New())
	return handler, reconciler, responder
}

func postCallback(handler http.HandlerFunc, sid string) *httptest.ResponseRecorder {
	form := url.Values{}
	if sid != "" {
		form.Set("MessageSid", sid)
	}
	req := httptest.NewRequest(http.MethodPost, "/callbacks/sms/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestWebhookHandler_StatusCallback(t *testing.T) {
	t.Run("NewMessageReconciled", func(t *testing.T) {
		handler, reconciler, _ := setupWebhookTest(t, false)
		msg := &domain.Message{SID: testMessageSID}

		reconciler.On("GetOrCreate", mock.Anything, testMessageSID).Return(msg, true, nil).Once()

		rr := postCallback(handler.HandleStatusCallback, testMessageSID)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		reconciler.AssertNotCalled(t, "Sync", mock.Anything, mock.Anything, mock.Anything)
		reconciler.AssertExpectations(t)
	})

	t.Run("KnownMessageResynced", func(t *testing.T) {
		handler, reconciler, _ := setupWebhookTest(t, false)
		msg := &domain.Message{SID: testMessageSID}

		reconciler.On("GetOrCreate", mock.Anything, testMessageSID).Return(msg, false, nil).Once()
		reconciler.On("Sync", mock.Anything, msg, (*domain.RemoteMessage)(nil)).Return(nil).Once()

		rr := postCallback(handler.HandleStatusCallback, testMessageSID)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		reconciler.AssertExpectations(t)
	})

	t.Run("MissingSIDRejected", func(t *testing.T) {
		handler, reconciler, _ := setupWebhookTest(t, false)

		rr := postCallback(handler.HandleStatusCallback, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		reconciler.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	})

	t.Run("ShortSIDRejected", func(t *testing.T) {
		handler, reconciler, _ := setupWebhookTest(t, false)

		rr := postCallback(handler.HandleStatusCallback, "SM123")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		reconciler.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	})

	t.Run("ReconcileFailure", func(t *testing.T) {
		handler, reconciler, _ := setupWebhookTest(t, false)

		reconciler.On("GetOrCreate", mock.Anything, testMessageSID).Return(nil, false, assert.AnError).Once()

		rr := postCallback(handler.HandleStatusCallback, testMessageSID)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestWebhookHandler_InboundMessage(t *testing.T) {
	t.Run("AutoRespondDisabled", func(t *testing.T) {
		handler, reconciler, responder := setupWebhookTest(t, false)
		msg := &domain.Message{SID: testMessageSID, Direction: domain.DirectionInbound}

		reconciler.On("GetOrCreate", mock.Anything, testMessageSID).Return(msg, true, nil).Once()

		rr := postCallback(handler.HandleInboundMessage, testMessageSID)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		responder.AssertNotCalled(t, "MaybeRespond", mock.Anything, mock.Anything)
	})

	t.Run("AutoRespondEnabled", func(t *testing.T) {
		handler, reconciler, responder := setupWebhookTest(t, true)
		msg := &domain.Message{SID: testMessageSID, Direction: domain.DirectionInbound}

		reconciler.On("GetOrCreate", mock.Anything, testMessageSID).Return(msg, true, nil).Once()
		responder.On("MaybeRespond", mock.Anything, msg).Return(&domain.ResponseSentEvent{}, nil).Once()

		rr := postCallback(handler.HandleInboundMessage, testMessageSID)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		responder.AssertExpectations(t)
	})

	t.Run("ResponderConfigGapIsFailedDependency", func(t *testing.T) {
		handler, reconciler, responder := setupWebhookTest(t, true)
		msg := &domain.Message{SID: testMessageSID, Direction: domain.DirectionInbound}

		reconciler.On("GetOrCreate", mock.Anything, testMessageSID).Return(msg, true, nil).Once()
		responder.On("MaybeRespond", mock.Anything, msg).Return(nil, domain.ErrNoActiveResponse).Once()

		rr := postCallback(handler.HandleInboundMessage, testMessageSID)

		assert.Equal(t, http.StatusFailedDependency, rr.Code)
	})

	t.Run("ResponderFailure", func(t *testing.T) {
		handler, reconciler, responder := setupWebhookTest(t, true)
		msg := &domain.Message{SID: testMessageSID, Direction: domain.DirectionInbound}

		reconciler.On("GetOrCreate", mock.Anything, testMessageSID).Return(msg, true, nil).Once()
		responder.On("MaybeRespond", mock.Anything, msg).Return(nil, assert.AnError).Once()

		rr := postCallback(handler.HandleInboundMessage, testMessageSID)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
