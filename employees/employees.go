// Package employees is the typed client for the employee directory and
// the authenticated user's profile.
package employees

import (
	"context"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/issuedesk/issuedesk-go/gateway"
	"github.com/issuedesk/issuedesk-go/users"
)

const (
	directoryCacheKey = "directory"

	// The directory changes rarely; a short TTL keeps assignee pickers
	// snappy without going stale for long.
	directoryCacheTTL = time.Minute
)

// Client dispatches employee operations through the gateway.
type Client struct {
	gw    *gateway.Client
	cache *gocache.Cache
}

// NewClient creates an employees client.
func NewClient(gw *gateway.Client) *Client {
	return &Client{
		gw:    gw,
		cache: gocache.New(directoryCacheTTL, 5*time.Minute),
	}
}

// Profile returns the authenticated user's identity as the backend
// currently reports it.
func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	response, err := c.gw.Do(ctx, http.MethodGet, "/profile/", nil, nil)
	if err != nil {
		return nil, err
	}
	return users.DecodeProfilePayload(response.Body)
}

// List returns the employee directory, served from a short-lived cache.
func (c *Client) List(ctx context.Context) ([]users.User, error) {
	if cached, ok := c.cache.Get(directoryCacheKey); ok {
		return cached.([]users.User), nil
	}

	var directory []users.User
	if err := c.gw.GetJSON(ctx, "/employees/", nil, &directory); err != nil {
		return nil, err
	}

	c.cache.Set(directoryCacheKey, directory, gocache.DefaultExpiration)
	return directory, nil
}

// Invalidate drops the cached directory, forcing the next List to refetch.
func (c *Client) Invalidate() {
	c.cache.Delete(directoryCacheKey)
}
