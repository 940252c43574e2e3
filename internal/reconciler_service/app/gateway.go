package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/adapters/provider"
	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// FetchGateway wraps the provider client with bounded retry on fetch
// operations. Sends are never retried here; the caller decides.
type FetchGateway struct {
	client         provider.Client
	maxRetries     int
	retrySleep     time.Duration
	statusCallback string
	logger         *slog.Logger
}

// NewFetchGateway creates a FetchGateway. maxRetries is the number of
// retries after the initial attempt; retrySleep is the fixed pause between
// attempts. statusCallback is attached to every outbound send unchanged.
func NewFetchGateway(client provider.Client, maxRetries int, retrySleep time.Duration, statusCallback string, logger *slog.Logger) *FetchGateway {
	return &FetchGateway{
		client:         client,
		maxRetries:     maxRetries,
		retrySleep:     retrySleep,
		statusCallback: statusCallback,
		logger:         logger.With("component", "fetch_gateway"),
	}
}

// FetchMessage pulls the remote representation of a message, retrying
// transient failures up to the configured bound.
func (g *FetchGateway) FetchMessage(ctx context.Context, sid string) (*domain.RemoteMessage, error) {
	timer := time.Now()
	defer func() { providerFetchDurationHist.WithLabelValues("get_message").Observe(time.Since(timer).Seconds()) }()

	var msg *domain.RemoteMessage
	err := g.withRetry(ctx, "get_message", sid, func() error {
		var fetchErr error
		msg, fetchErr = g.client.GetMessage(ctx, sid)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// FetchAccount pulls the remote representation of an account, retrying
// transient failures up to the configured bound.
func (g *FetchGateway) FetchAccount(ctx context.Context, sid string) (*domain.RemoteAccount, error) {
	timer := time.Now()
	defer func() { providerFetchDurationHist.WithLabelValues("get_account").Observe(time.Since(timer).Seconds()) }()

	var account *domain.RemoteAccount
	err := g.withRetry(ctx, "get_account", sid, func() error {
		var fetchErr error
		account, fetchErr = g.client.GetAccount(ctx, sid)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// SendMessage submits one outbound message with the precomputed status
// callback attached. Not retried.
func (g *FetchGateway) SendMessage(ctx context.Context, body, to, from string) (*domain.RemoteMessage, error) {
	return g.client.CreateMessage(ctx, provider.CreateMessageRequest{
		Body:           body,
		To:             to,
		From:           from,
		StatusCallback: g.statusCallback,
	})
}

// withRetry runs fn up to maxRetries+1 times, sleeping retrySleep between
// attempts, retrying only transient failures. After the bound is exhausted
// the last error is returned unwrapped.
func (g *FetchGateway) withRetry(ctx context.Context, op, sid string, fn func() error) error {
	retries := 0
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if !provider.IsTransient(err) || retries >= g.maxRetries {
			return err
		}
		retries++
		providerFetchRetriesTotal.Inc()
		g.logger.WarnContext(ctx, "Transient provider failure, retrying",
			"op", op, "sid", sid, "retry", retries, "max_retries", g.maxRetries, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.retrySleep):
		}
	}
}
