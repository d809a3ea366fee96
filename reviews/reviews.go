// Package reviews is the typed client for review requests: an employee
// asks for an issue to be reviewed, an administrator approves or rejects
// it. The approval workflow semantics live in the backend.
package reviews

import (
	"context"
	"fmt"
	"time"

	"github.com/issuedesk/issuedesk-go/gateway"
	"github.com/issuedesk/issuedesk-go/users"
)

// ReviewRequest is a pending or decided review of an issue.
type ReviewRequest struct {
	ID        int64       `json:"id"`
	IssueID   int64       `json:"issue"`
	Requester *users.User `json:"requester,omitempty"`
	Approved  *bool       `json:"approved,omitempty"` // nil while undecided
	Feedback  string      `json:"feedback,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	DecidedAt *time.Time  `json:"decided_at,omitempty"`
}

type createRequest struct {
	IssueID int64 `json:"issue"`
}

type decideRequest struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
}

// Client dispatches review-request operations through the gateway.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a reviews client.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Create asks for a review of an issue.
func (c *Client) Create(ctx context.Context, issueID int64) (*ReviewRequest, error) {
	review := &ReviewRequest{}
	if err := c.gw.PostJSON(ctx, "/review-requests/", createRequest{IssueID: issueID}, review); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns all review requests visible to the authenticated user.
func (c *Client) List(ctx context.Context) ([]ReviewRequest, error) {
	var reviews []ReviewRequest
	if err := c.gw.GetJSON(ctx, "/review-requests/", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Decide records an approval or rejection with optional feedback.
func (c *Client) Decide(ctx context.Context, requestID int64, approved bool, feedback string) (*ReviewRequest, error) {
	review := &ReviewRequest{}
	path := fmt.Sprintf("/review-requests/%d/decide/", requestID)
	if err := c.gw.PostJSON(ctx, path, decideRequest{Approved: approved, Feedback: feedback}, review); err != nil {
		return nil, err
	}
	return review, nil
}
