package users

import (
	"errors"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// FromAccessToken extracts a User from the claims embedded in an access
// token. This is a degraded path: the signature is NOT verified, so the
// claims are trusted only as a fallback when no verified profile could be
// fetched after a successful credential exchange. Callers must prefer the
// backend profile endpoint (or an inline login payload) whenever available.
func FromAccessToken(rawToken string) (*User, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("empty token")
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, err
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}

	user := &User{}
	if id, ok := claims["user_id"].(float64); ok {
		user.ID = int64(id)
	}
	user.Username, _ = claims["username"].(string)
	user.Email, _ = claims["email"].(string)
	user.FirstName, _ = claims["first_name"].(string)
	user.LastName, _ = claims["last_name"].(string)
	user.IsStaff, _ = claims["is_staff"].(bool)
	user.IsSuperuser, _ = claims["is_superuser"].(bool)

	if user.ID == 0 && user.Username == "" {
		// A token without any identity claims cannot stand in for a profile
		return nil, errors.New("no identity claims in token")
	}

	return user, nil
}
