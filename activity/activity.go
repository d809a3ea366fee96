// Package activity is the typed client for the recent-activity feed shown
// on dashboards.
package activity

import (
	"context"
	"time"

	"github.com/issuedesk/issuedesk-go/gateway"
	"github.com/issuedesk/issuedesk-go/users"
)

// Entry is one recorded action, e.g. an issue creation or status change.
type Entry struct {
	ID        int64       `json:"id"`
	Actor     *users.User `json:"actor,omitempty"`
	Action    string      `json:"action"`
	IssueID   int64       `json:"issue,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client dispatches activity operations through the gateway.
type Client struct {
	gw *gateway.Client
}

// NewClient creates an activity client.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Recent returns the latest recorded actions, newest first.
func (c *Client) Recent(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := c.gw.GetJSON(ctx, "/activity/", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
