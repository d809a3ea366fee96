package users

import "strings"

// User is the authenticated principal as the backend reports it. It is
// cached client-side alongside the credential pair and rehydrated on
// startup; the backend remains the source of truth for every field.
type User struct {
	ID          int64  `json:"id,omitempty"`           // Unique identifier for the user
	Username    string `json:"username,omitempty"`     // Unique username
	Email       string `json:"email,omitempty"`        // User's email address
	FirstName   string `json:"first_name,omitempty"`   // First name of the user
	LastName    string `json:"last_name,omitempty"`    // Last name of the user
	IsStaff     bool   `json:"is_staff,omitempty"`     // Staff members may access admin views
	IsSuperuser bool   `json:"is_superuser,omitempty"` // Superusers bypass all permission checks

	// Profile fields carried by the employee record
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// IsAdmin reports whether the user may access administrator views.
func (u User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// DisplayName returns "First Last" when available, otherwise the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}
