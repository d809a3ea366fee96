// Package issues is the typed client for the issue resource. It owns the
// wire types only; lifecycle rules (which transitions are legal, who may
// assign) are enforced by the backend.
package issues

import (
	"time"

	"github.com/issuedesk/issuedesk-go/users"
)

// Status is the workflow state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Priority is the urgency of an issue.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Statuses lists every workflow state in display order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
}

// Priorities lists every priority in ascending urgency.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// Issue is an issue as the backend reports it.
type Issue struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	Assignee    *users.User `json:"assignee,omitempty"`
	Deadline    string      `json:"deadline,omitempty"` // Date in YYYY-MM-DD form
	Tags        []string    `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

// CreateRequest carries the fields for a new issue. Assignees are
// referenced by user ID on writes.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	AssigneeID  int64    `json:"assignee,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateRequest is a partial update: only non-nil fields are sent.
type UpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	AssigneeID  *int64    `json:"assignee,omitempty"`
	Deadline    *string   `json:"deadline,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}
