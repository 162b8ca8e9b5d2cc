// ABOUTME: Low-level HTTP client for the Inoreader API
// ABOUTME: Feeds rate-limit headers to the tracker on every response before the body is used

package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// API error classification.
var (
	ErrRateLimited  = errors.New("inoreader API rate limit exceeded")
	ErrUnauthorized = errors.New("inoreader API authentication failed")
	ErrRemote       = errors.New("inoreader API remote failure")
)

// TokenSource supplies a valid access token. Token acquisition, refresh and
// storage live outside this service; the client only consumes the capability.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token from configuration.
type StaticTokenSource struct {
	Token string
}

func (s *StaticTokenSource) AccessToken(ctx context.Context) (string, error) {
	if s.Token == "" {
		return "", fmt.Errorf("no access token configured")
	}
	return s.Token, nil
}

// UsageRecorder receives rate-limit headers from every API response,
// including failed ones, so tracked usage always reflects reality.
type UsageRecorder interface {
	RecordFromHeaders(endpoint string, headers http.Header)
}

// CallObserver is notified of every completed remote call for latency and
// error-rate bookkeeping.
type CallObserver func(endpoint string, duration time.Duration, err error)

// APIClient handles HTTP communication with the Inoreader API.
type APIClient struct {
	tokenSource    TokenSource
	usageRecorder  UsageRecorder
	httpClient     *http.Client
	breaker        *CircuitBreaker
	baseURL        string
	requestTimeout time.Duration
	observer       CallObserver
	logger         *slog.Logger
}

// APIClientOption configures an APIClient.
type APIClientOption func(*APIClient)

// WithCallObserver registers a latency/error observer.
func WithCallObserver(obs CallObserver) APIClientOption {
	return func(c *APIClient) { c.observer = obs }
}

// WithRequestTimeout overrides the per-call timeout.
func WithRequestTimeout(d time.Duration) APIClientOption {
	return func(c *APIClient) { c.requestTimeout = d }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) APIClientOption {
	return func(c *APIClient) { c.httpClient = hc }
}

// NewAPIClient creates a new Inoreader API client.
func NewAPIClient(baseURL string, tokenSource TokenSource, usageRecorder UsageRecorder, logger *slog.Logger, opts ...APIClientOption) *APIClient {
	if logger == nil {
		logger = slog.Default()
	}

	client := &APIClient{
		tokenSource:    tokenSource,
		usageRecorder:  usageRecorder,
		baseURL:        strings.TrimRight(baseURL, "/"),
		requestTimeout: 30 * time.Second,
		breaker:        NewCircuitBreaker(nil, logger),
		logger:         logger,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// FetchSubscriptionList fetches the subscription list.
func (c *APIClient) FetchSubscriptionList(ctx context.Context) (*SubscriptionListResponse, error) {
	body, err := c.get(ctx, "/subscription/list", url.Values{"output": {"json"}})
	if err != nil {
		return nil, fmt.Errorf("subscription list API call failed: %w", err)
	}

	var response SubscriptionListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription list response: %w", err)
	}

	c.logger.Debug("Fetched subscription list", "subscriptions", len(response.Subscriptions))
	return &response, nil
}

// FetchUnreadCounts fetches per-stream unread counts.
func (c *APIClient) FetchUnreadCounts(ctx context.Context) (*UnreadCountResponse, error) {
	body, err := c.get(ctx, "/unread-count", url.Values{"output": {"json"}})
	if err != nil {
		return nil, fmt.Errorf("unread count API call failed: %w", err)
	}

	var response UnreadCountResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unread count response: %w", err)
	}

	return &response, nil
}

// FetchStreamContents fetches a page of stream contents. An empty
// continuation token starts from the newest items; excludeRead drops
// already-read items server-side.
func (c *APIClient) FetchStreamContents(ctx context.Context, streamID, continuation string, maxItems int, excludeRead bool) (*StreamContentsResponse, error) {
	params := url.Values{
		"output": {"json"},
		"n":      {strconv.Itoa(maxItems)},
	}
	if continuation != "" {
		params.Set("c", continuation)
	}
	if excludeRead {
		params.Set("xt", TagRead)
	}

	endpoint := "/stream/contents/" + url.PathEscape(streamID)

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("stream contents API call failed: %w", err)
	}

	var response StreamContentsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream contents response: %w", err)
	}

	c.logger.Debug("Fetched stream contents",
		"stream_id", streamID,
		"items", len(response.Items),
		"has_continuation", response.Continuation != "")

	return &response, nil
}

// EditTag applies or removes a state tag on a batch of items in one call.
// Setting read=true twice is safe, so at-least-once delivery is acceptable.
func (c *APIClient) EditTag(ctx context.Context, itemIDs []string, addTag, removeTag string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	form := url.Values{}
	for _, id := range itemIDs {
		form.Add("i", id)
	}
	if addTag != "" {
		form.Set("a", addTag)
	}
	if removeTag != "" {
		form.Set("r", removeTag)
	}

	if _, err := c.post(ctx, "/edit-tag", form); err != nil {
		return fmt.Errorf("edit-tag API call failed: %w", err)
	}

	c.logger.Debug("Applied tag edit batch",
		"items", len(itemIDs),
		"add", addTag,
		"remove", removeTag)

	return nil
}

// ValidateAuth probes token validity against the user-info endpoint.
func (c *APIClient) ValidateAuth(ctx context.Context) error {
	if _, err := c.get(ctx, "/user-info", url.Values{"output": {"json"}}); err != nil {
		return fmt.Errorf("auth validation failed: %w", err)
	}
	return nil
}

func (c *APIClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, params, nil)
}

func (c *APIClient) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodPost, endpoint, nil, form)
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, params, form url.Values) ([]byte, error) {
	var body []byte

	start := time.Now()
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var execErr error
		body, execErr = c.execute(ctx, method, endpoint, params, form)
		return execErr
	})

	if c.observer != nil {
		c.observer(endpoint, time.Since(start), err)
	}

	return body, err
}

func (c *APIClient) execute(ctx context.Context, method, endpoint string, params, form url.Values) ([]byte, error) {
	token, err := c.tokenSource.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "sync-hub/1.0")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	// Rate-limit headers are recorded before anything else so tracked usage
	// reflects reality even when the call itself failed.
	if c.usageRecorder != nil {
		c.usageRecorder.RecordFromHeaders(endpoint, resp.Header)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrRemote, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return respBody, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status=%d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status=%d", ErrUnauthorized, resp.StatusCode)
	default:
		c.logger.Error("Inoreader API request failed",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"body_preview", preview(respBody, 200))
		return nil, fmt.Errorf("%w: status=%d", ErrRemote, resp.StatusCode)
	}
}

// IsRetryable reports whether an error is transient and worth retrying.
// Rate-limit exhaustion is a deferral signal, not a retryable error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	if errors.Is(err, ErrRemote) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset")
}

func preview(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
