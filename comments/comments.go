// Package comments is the typed client for issue-scoped comments.
package comments

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/issuedesk/issuedesk-go/gateway"
	"github.com/issuedesk/issuedesk-go/users"
)

// Comment is a single comment on an issue.
type Comment struct {
	ID        int64       `json:"id"`
	IssueID   int64       `json:"issue"`
	Author    *users.User `json:"author,omitempty"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
}

type createRequest struct {
	IssueID int64  `json:"issue"`
	Content string `json:"content"`
}

type updateRequest struct {
	Content string `json:"content"`
}

// Client dispatches comment operations through the gateway.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a comments client.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// ListByIssue returns the comments on one issue.
func (c *Client) ListByIssue(ctx context.Context, issueID int64) ([]Comment, error) {
	query := url.Values{}
	query.Set("issue", strconv.FormatInt(issueID, 10))

	var comments []Comment
	if err := c.gw.GetJSON(ctx, "/comments/", query, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create adds a comment to an issue.
func (c *Client) Create(ctx context.Context, issueID int64, content string) (*Comment, error) {
	comment := &Comment{}
	if err := c.gw.PostJSON(ctx, "/comments/", createRequest{IssueID: issueID, Content: content}, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update replaces a comment's content.
func (c *Client) Update(ctx context.Context, commentID int64, content string) (*Comment, error) {
	comment := &Comment{}
	if err := c.gw.PutJSON(ctx, fmt.Sprintf("/comments/%d/", commentID), updateRequest{Content: content}, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment.
func (c *Client) Delete(ctx context.Context, commentID int64) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/comments/%d/", commentID))
}
