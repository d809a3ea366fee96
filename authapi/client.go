// Package authapi is the raw client for the backend's authentication
// endpoints: credential exchange, refresh, registration and logout. It
// deliberately uses a bare HTTP client with no credential attachment or
// retry behaviour, because the refresh call itself must never pass through
// the gateway's 401 interception.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/issuedesk/issuedesk-go/internal/config"
	"github.com/issuedesk/issuedesk-go/users"
)

// Client calls the authentication endpoints of the backend REST API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates an authentication API client from the configuration.
func New(cfg config.Config, options ...Option) *Client {
	client := &Client{
		baseURL:    cfg.GetAPIBaseURL(),
		userAgent:  cfg.GetUserAgent(),
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// IssueToken exchanges a username and password for a credential pair.
func (c *Client) IssueToken(ctx context.Context, username, password string) (*TokenResponse, error) {
	request := map[string]string{"username": username, "password": password}

	tokenResponse := &TokenResponse{}
	if err := c.postJSON(ctx, "/token/", "", request, tokenResponse); err != nil {
		return nil, err
	}
	if tokenResponse.Access == "" || tokenResponse.Refresh == "" {
		return nil, errors.New("token response missing access or refresh token")
	}
	return tokenResponse, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	request := map[string]string{"refresh": refreshToken}

	refreshResponse := &RefreshResponse{}
	if err := c.postJSON(ctx, "/token/refresh/", "", request, refreshResponse); err != nil {
		return nil, err
	}
	if refreshResponse.Access == "" {
		return nil, errors.New("refresh response missing access token")
	}
	return refreshResponse, nil
}

// Register submits a new account to the registration endpoint. The current
// session, if any, is unaffected.
func (c *Client) Register(ctx context.Context, registration Registration) error {
	return c.postJSON(ctx, "/register/", "", registration, nil)
}

// Logout notifies the backend that the refresh token should be discarded.
// Best-effort: callers clear local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	request := map[string]string{"refresh": refreshToken}
	return c.postJSON(ctx, "/logout/", "", request, nil)
}

// Profile fetches the authenticated identity using an explicit access
// token. Used during login, before the session is established.
func (c *Client) Profile(ctx context.Context, accessToken string) (*users.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/profile/", accessToken, nil)
	if err != nil {
		return nil, err
	}
	return users.DecodeProfilePayload(body)
}

func (c *Client) postJSON(ctx context.Context, path, accessToken string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "authapi.Client.postJSON Marshal")
	}

	body, err := c.do(ctx, http.MethodPost, path, accessToken, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "authapi.Client.postJSON Unmarshal")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "authapi.Client.do NewRequest")
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", c.userAgent)
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "authapi.Client.do Do")
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "authapi.Client.do ReadAll")
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, DecodeError(response.StatusCode, body)
	}
	return body, nil
}
