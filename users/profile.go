package users

import (
	"encoding/json"
	"errors"
)

// DecodeProfilePayload parses a profile endpoint response. Deployments
// differ on whether the identity arrives bare or wrapped as {"user": {...}}
// next to the employee record; both shapes are accepted.
func DecodeProfilePayload(data []byte) (*User, error) {
	var envelope struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.User != nil {
		return envelope.User, nil
	}

	user := &User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, err
	}
	if user.ID == 0 && user.Username == "" {
		return nil, errors.New("profile payload carries no identity")
	}
	return user, nil
}
