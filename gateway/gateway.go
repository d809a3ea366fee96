// Package gateway is the shared HTTP client wrapper every resource client
// dispatches through. It attaches the current access token to each
// outgoing request, and on an authorisation failure performs exactly one
// silent refresh followed by exactly one resubmission of the original
// request. Anything else — a second 401, any non-401 failure — propagates
// to the caller unchanged.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/issuedesk/issuedesk-go/authapi"
	"github.com/issuedesk/issuedesk-go/internal/config"
	"github.com/issuedesk/issuedesk-go/storage"
)

// SessionGuard is the session store surface the gateway calls back into
// when a request is rejected as unauthorised. Keeping the storage writes
// behind these two methods removes any ambiguity about who owns the
// persisted keys.
type SessionGuard interface {
	// RefreshAccess exchanges the stored refresh token for a new access
	// token, persists it, and returns it
	RefreshAccess(ctx context.Context) (string, error)

	// Teardown clears all session state and notifies the application that
	// the session ended without user action
	Teardown()
}

// Response is a completed backend response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client dispatches authenticated requests to the backend REST API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	storage    storage.Repo
	guard      SessionGuard

	// Concurrent 401s share one in-flight refresh rather than each
	// issuing their own refresh call.
	refreshes singleflight.Group
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a gateway client with its required dependencies.
func New(cfg config.Config, storageRepo storage.Repo, guard SessionGuard, options ...Option) (*Client, error) {
	if storageRepo == nil {
		return nil, errors.New("[gateway.New] storage repo is required")
	}
	if guard == nil {
		return nil, errors.New("[gateway.New] session guard is required")
	}

	client := &Client{
		baseURL:    cfg.GetAPIBaseURL(),
		userAgent:  cfg.GetUserAgent(),
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
		storage:    storageRepo,
		guard:      guard,
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// Do dispatches a request and applies the refresh-once, retry-once rule.
// body, when non-nil, is marshalled to JSON once and reused verbatim for
// the retry, so the resubmitted request is identical to the original.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "gateway.Client.Do Marshal")
		}
	}

	response, err := c.send(ctx, method, path, query, payload, "")
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusUnauthorized {
		return finish(response)
	}

	// First 401 for this request: attempt one shared refresh.
	newAccess, err, _ := c.refreshes.Do(storage.RefreshTokenKey, func() (any, error) {
		return c.guard.RefreshAccess(ctx)
	})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Token refresh failed, ending session")
		c.guard.Teardown()
		// The caller sees the original authorisation failure, not the
		// refresh error.
		return nil, authapi.DecodeError(response.StatusCode, response.Body)
	}

	// Resubmit the identical request once with the fresh token. Its
	// outcome is final: a second 401 propagates without another refresh.
	retried, err := c.send(ctx, method, path, query, payload, newAccess.(string))
	if err != nil {
		return nil, err
	}
	return finish(retried)
}

// send performs a single HTTP round trip. The access token is read fresh
// from storage at call time unless an explicit token is supplied for a
// post-refresh resubmission.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, accessToken string) (*Response, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, errors.Wrap(err, "gateway.Client.send NewRequest")
	}

	if accessToken == "" {
		accessToken, _ = c.storage.Get(storage.AccessTokenKey)
	}
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}
	requestID := uuid.New().String()
	request.Header.Set("X-Request-ID", requestID)
	request.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("Request failed")
		return nil, errors.Wrap(err, "gateway.Client.send Do")
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "gateway.Client.send ReadAll")
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", response.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("Request completed")

	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       responseBody,
	}, nil
}

// finish converts non-2xx responses into decoded API errors.
func finish(response *Response) (*Response, error) {
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, authapi.DecodeError(response.StatusCode, response.Body)
	}
	return response, nil
}
