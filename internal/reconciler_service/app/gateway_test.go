package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/adapters/provider"
	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

const testMessageSID = "SM00000000000000000000000000000001"

func newTestGateway(client provider.Client, maxRetries int) *FetchGateway {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFetchGateway(client, maxRetries, time.Millisecond, "https://sms.example.com/callbacks/sms/status", logger)
}

func TestFetchGateway_FetchMessage_RetryBound(t *testing.T) {
	mockClient := new(MockProviderClient)
	transient := &provider.TransientError{Op: "get_message", StatusCode: 503}

	// With max-retries=2 exactly 3 attempts occur before the error surfaces.
	mockClient.On("GetMessage", mock.Anything, testMessageSID).Return(nil, transient).Times(3)

	gateway := newTestGateway(mockClient, 2)
	msg, err := gateway.FetchMessage(context.Background(), testMessageSID)

	require.Error(t, err)
	assert.Nil(t, msg)
	assert.True(t, provider.IsTransient(err))
	mockClient.AssertExpectations(t)
	mockClient.AssertNumberOfCalls(t, "GetMessage", 3)
}

func TestFetchGateway_FetchMessage_PermanentNotRetried(t *testing.T) {
	mockClient := new(MockProviderClient)
	permanent := &provider.PermanentError{Op: "get_message", StatusCode: 404, Code: 20404, Message: "not found"}

	mockClient.On("GetMessage", mock.Anything, testMessageSID).Return(nil, permanent).Once()

	gateway := newTestGateway(mockClient, 5)
	_, err := gateway.FetchMessage(context.Background(), testMessageSID)

	require.Error(t, err)
	assert.False(t, provider.IsTransient(err))
	mockClient.AssertNumberOfCalls(t, "GetMessage", 1)
}

func TestFetchGateway_FetchMessage_RecoversMidway(t *testing.T) {
	mockClient := new(MockProviderClient)
	transient := &provider.TransientError{Op: "get_message", StatusCode: 500}
	remote := &domain.RemoteMessage{SID: testMessageSID, Status: "delivered"}

	mockClient.On("GetMessage", mock.Anything, testMessageSID).Return(nil, transient).Twice()
	mockClient.On("GetMessage", mock.Anything, testMessageSID).Return(remote, nil).Once()

	gateway := newTestGateway(mockClient, 5)
	msg, err := gateway.FetchMessage(context.Background(), testMessageSID)

	require.NoError(t, err)
	assert.Equal(t, testMessageSID, msg.SID)
	mockClient.AssertNumberOfCalls(t, "GetMessage", 3)
}

func TestFetchGateway_FetchAccount_Retries(t *testing.T) {
	mockClient := new(MockProviderClient)
	transient := &provider.TransientError{Op: "get_account", StatusCode: 502}
	remote := &domain.RemoteAccount{SID: "AC00000000000000000000000000000001", FriendlyName: "Root", Type: "Full", Status: "active"}

	mockClient.On("GetAccount", mock.Anything, remote.SID).Return(nil, transient).Once()
	mockClient.On("GetAccount", mock.Anything, remote.SID).Return(remote, nil).Once()

	gateway := newTestGateway(mockClient, 1)
	account, err := gateway.FetchAccount(context.Background(), remote.SID)

	require.NoError(t, err)
	assert.Equal(t, "Root", account.FriendlyName)
}

func TestFetchGateway_SendMessage_NotRetried(t *testing.T) {
	mockClient := new(MockProviderClient)
	transient := &provider.TransientError{Op: "create_message", StatusCode: 503}

	mockClient.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, transient).Once()

	gateway := newTestGateway(mockClient, 5)
	_, err := gateway.SendMessage(context.Background(), "Bye", "+15005550006", "+15005550001")

	require.Error(t, err)
	mockClient.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestFetchGateway_SendMessage_AttachesStatusCallback(t *testing.T) {
	mockClient := new(MockProviderClient)
	remote := &domain.RemoteMessage{SID: "SM00000000000000000000000000000002"}

	mockClient.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req provider.CreateMessageRequest) bool {
		return req.StatusCallback == "https://sms.example.com/callbacks/sms/status" &&
			req.Body == "Bye" && req.To == "+15005550006" && req.From == "+15005550001"
	})).Return(remote, nil).Once()

	gateway := newTestGateway(mockClient, 0)
	msg, err := gateway.SendMessage(context.Background(), "Bye", "+15005550006", "+15005550001")

	require.NoError(t, err)
	assert.Equal(t, remote.SID, msg.SID)
	mockClient.AssertExpectations(t)
}

func TestFetchGateway_ContextCancelledDuringBackoff(t *testing.T) {
	mockClient := new(MockProviderClient)
	transient := &provider.TransientError{Op: "get_message", StatusCode: 503}
	mockClient.On("GetMessage", mock.Anything, testMessageSID).Return(nil, transient).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := NewFetchGateway(mockClient, 5, time.Minute, "", logger)
	_, err := gateway.FetchMessage(ctx, testMessageSID)

	require.ErrorIs(t, err, context.Canceled)
	mockClient.AssertNumberOfCalls(t, "GetMessage", 1)
}
