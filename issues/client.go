package issues

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/issuedesk/issuedesk-go/gateway"
)

// Filter narrows a listing. Zero values are omitted from the query.
type Filter struct {
	Status   Status
	Priority Priority
	Assignee int64
	Search   string
}

func (f Filter) query() url.Values {
	query := url.Values{}
	if f.Status != "" {
		query.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		query.Set("priority", string(f.Priority))
	}
	if f.Assignee != 0 {
		query.Set("assignee", strconv.FormatInt(f.Assignee, 10))
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	return query
}

// Client dispatches issue operations through the gateway.
type Client struct {
	gw *gateway.Client
}

// NewClient creates an issues client.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// List returns issues matching the filter.
func (c *Client) List(ctx context.Context, filter Filter) ([]Issue, error) {
	var issues []Issue
	if err := c.gw.GetJSON(ctx, "/issue/", filter.query(), &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// Mine returns the issues assigned to the authenticated user.
func (c *Client) Mine(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	if err := c.gw.GetJSON(ctx, "/issue/my_issues/", nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// Get returns a single issue by ID.
func (c *Client) Get(ctx context.Context, id int64) (*Issue, error) {
	issue := &Issue{}
	if err := c.gw.GetJSON(ctx, fmt.Sprintf("/issue/%d/", id), nil, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Create submits a new issue and returns it as the backend stored it.
func (c *Client) Create(ctx context.Context, request CreateRequest) (*Issue, error) {
	issue := &Issue{}
	if err := c.gw.PostJSON(ctx, "/issue/", request, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Update applies a partial update and returns the resulting issue.
func (c *Client) Update(ctx context.Context, id int64, request UpdateRequest) (*Issue, error) {
	issue := &Issue{}
	if err := c.gw.PatchJSON(ctx, fmt.Sprintf("/issue/%d/", id), request, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Delete removes an issue.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/issue/%d/", id))
}
