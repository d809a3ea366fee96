package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	interrors "github.com/issuedesk/issuedesk-go/internal/errors"
)

// APIError is a non-2xx backend response decoded into the error shapes
// this backend produces: a "detail" (or "error") message, or a map of
// field name to validation messages.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message())
}

// Message returns the human-readable form shown to users: the backend
// detail verbatim when present, otherwise field errors joined into a
// readable summary, otherwise a generic message for the status.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
		}
		return strings.Join(parts, "; ")
	}

	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "Invalid credentials."
	case http.StatusForbidden:
		return "You do not have permission to perform this action."
	case http.StatusNotFound:
		return "Not found."
	default:
		return "Request failed. Please try again."
	}
}

// Unwrap maps the response onto the client error taxonomy so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return interrors.ErrUnauthorized
	case http.StatusNotFound:
		return interrors.ErrNotFound
	case http.StatusBadRequest:
		return interrors.ErrValidation
	default:
		return nil
	}
}

// DecodeError builds an APIError from a response body. Bodies that are not
// JSON objects still yield a usable error carrying the status code.
func DecodeError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	for key, value := range payload {
		switch key {
		case "detail", "error":
			if s, ok := value.(string); ok && apiErr.Detail == "" {
				apiErr.Detail = s
			}
		default:
			messages := toMessages(value)
			if len(messages) == 0 {
				continue
			}
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = messages
		}
	}
	return apiErr
}

func toMessages(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		messages := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				messages = append(messages, s)
			}
		}
		return messages
	default:
		return nil
	}
}

// ErrorMessage extracts the user-facing message from any error returned by
// this package, falling back to the supplied generic message for transport
// failures that carry no backend payload.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if interrors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return fallback
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return interrors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
