package authapi

import "github.com/issuedesk/issuedesk-go/users"

// TokenResponse represents the response from the credential exchange
// endpoint (POST /token/).
type TokenResponse struct {
	// Access is the short-lived bearer token attached to every API call.
	// Usage: "Authorization: Bearer <access>"
	Access string `json:"access"`

	// Refresh is the longer-lived token exchanged for a new access token
	// when the current one expires. Used only against /token/refresh/.
	Refresh string `json:"refresh"`

	// User is the authenticated identity, when the backend inlines it in
	// the login response. Optional: most deployments require a follow-up
	// profile fetch instead.
	User *users.User `json:"user,omitempty"`
}

// RefreshResponse represents the response from POST /token/refresh/.
type RefreshResponse struct {
	// Access is the freshly minted access token. The refresh token itself
	// is not rotated by this backend.
	Access string `json:"access"`
}

// Registration carries the profile fields submitted to POST /register/.
type Registration struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
}
