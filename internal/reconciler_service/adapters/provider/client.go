package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// CreateMessageRequest carries the fields of an outbound send. The
// StatusCallback URL is computed once by the surrounding system and passed
// through unchanged.
type CreateMessageRequest struct {
	Body           string
	To             string
	From           string
	StatusCallback string
}

// Client is the remote provider surface the engine consumes. Each method may
// fail with a *TransientError (retryable) or a *PermanentError.
type Client interface {
	GetMessage(ctx context.Context, sid string) (*domain.RemoteMessage, error)
	GetAccount(ctx context.Context, sid string) (*domain.RemoteAccount, error)
	CreateMessage(ctx context.Context, req CreateMessageRequest) (*domain.RemoteMessage, error)
}

// apiError is the provider's JSON error envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// HTTPClient talks to the provider's REST API. Requests are authenticated
// with HTTP basic auth (account SID / auth token); creates are form-encoded
// and all responses are JSON.
type HTTPClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
}

// NewHTTPClient creates a provider REST client. baseURL is the API root,
// e.g. "https://api.twilio.com/2010-04-01".
func NewHTTPClient(logger *slog.Logger, baseURL, accountSID, authToken string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		logger:     logger.With("adapter", "provider_http"),
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
	}
}

// GetMessage fetches the current remote representation of one message.
func (c *HTTPClient) GetMessage(ctx context.Context, sid string) (*domain.RemoteMessage, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages/%s.json", c.baseURL, c.accountSID, sid)
	var msg domain.RemoteMessage
	if err := c.doJSON(ctx, http.MethodGet, "get_message", endpoint, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetAccount fetches the current remote representation of one account.
func (c *HTTPClient) GetAccount(ctx context.Context, sid string) (*domain.RemoteAccount, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s.json", c.baseURL, sid)
	var account domain.RemoteAccount
	if err := c.doJSON(ctx, http.MethodGet, "get_account", endpoint, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateMessage submits an outbound message and returns the provider's
// representation of it.
func (c *HTTPClient) CreateMessage(ctx context.Context, req CreateMessageRequest) (*domain.RemoteMessage, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("Body", req.Body)
	form.Set("To", req.To)
	form.Set("From", req.From)
	if req.StatusCallback != "" {
		form.Set("StatusCallback", req.StatusCallback)
	}

	var msg domain.RemoteMessage
	if err := c.doJSON(ctx, http.MethodPost, "create_message", endpoint, strings.NewReader(form.Encode()), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, op, endpoint string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &PermanentError{Op: op, Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	httpReq.SetBasicAuth(c.accountSID, c.authToken)
	if method == http.MethodPost {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.DebugContext(ctx, "Sending provider request", "op", op, "method", method, "url", endpoint)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransientError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &TransientError{Op: op, StatusCode: httpResp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500 {
		return &TransientError{
			Op:         op,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("provider returned %d: %s", httpResp.StatusCode, string(respBody)),
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var apiErr apiError
		if unmarshalErr := json.Unmarshal(respBody, &apiErr); unmarshalErr != nil {
			apiErr.Message = string(respBody)
		}
		c.logger.WarnContext(ctx, "Provider rejected request", "op", op, "status_code", httpResp.StatusCode, "provider_code", apiErr.Code, "message", apiErr.Message)
		return &PermanentError{Op: op, StatusCode: httpResp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &PermanentError{Op: op, StatusCode: httpResp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}
