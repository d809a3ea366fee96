// Package session owns the authenticated-identity lifecycle: login,
// logout, registration delegation, restoring a persisted session on
// startup, and the derived authorisation flags the rest of the
// application reads. The store is the single writer of the persisted
// credential and identity keys; the gateway reaches those keys only
// through the RefreshAccess and Teardown callbacks exposed here.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/issuedesk/issuedesk-go/authapi"
	interrors "github.com/issuedesk/issuedesk-go/internal/errors"
	"github.com/issuedesk/issuedesk-go/storage"
	"github.com/issuedesk/issuedesk-go/users"
)

const genericLoginError = "Login failed. Please check your credentials."

// LoginResult is the structured outcome of a login attempt. Login never
// returns a Go error: callers branch on Success and show Error verbatim.
type LoginResult struct {
	Success bool        // Whether the credential exchange succeeded
	User    *users.User // The resolved identity, when Success is true
	IsAdmin bool        // Derived admin flag, so callers can redirect immediately
	Error   string      // Human-readable failure message, when Success is false
}

// RegisterResult is the structured outcome of a registration attempt.
type RegisterResult struct {
	Success bool
	Error   string
}

// Store is the single source of truth for who is logged in and with what
// privileges. All state transitions hold one mutex, so no other code on
// the same goroutine ever observes persisted storage and in-memory state
// disagreeing about authentication.
type Store struct {
	api       *authapi.Client
	storage   storage.Repo
	onExpired func()

	lock          sync.Mutex
	user          *users.User
	authenticated bool
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithSessionExpiredHook registers a callback fired when the session is
// torn down without an explicit logout (irrecoverable refresh failure).
// The embedding application uses it to navigate to its login view.
func WithSessionExpiredHook(hook func()) StoreOption {
	return func(s *Store) {
		s.onExpired = hook
	}
}

// NewStore initialises a session store with its required dependencies.
func NewStore(api *authapi.Client, storageRepo storage.Repo, options ...StoreOption) (*Store, error) {
	if api == nil {
		return nil, errors.New("[NewStore] auth API client is required")
	}
	if storageRepo == nil {
		return nil, errors.New("[NewStore] storage repo is required")
	}

	store := &Store{
		api:     api,
		storage: storageRepo,
	}
	for _, option := range options {
		option(store)
	}
	return store, nil
}

// Restore rehydrates the session from persisted storage. Run once at
// startup; it never touches the network. A malformed or partial persisted
// session is self-healing: everything is cleared and the store stays
// unauthenticated.
func (s *Store) Restore() {
	s.lock.Lock()
	defer s.lock.Unlock()

	accessToken, hasToken := s.storage.Get(storage.AccessTokenKey)
	serialized, hasUser := s.storage.Get(storage.UserKey)

	if !hasToken || accessToken == "" || !hasUser {
		if hasToken || hasUser {
			s.clearLocked()
		}
		return
	}

	user := &users.User{}
	if err := json.Unmarshal([]byte(serialized), user); err != nil {
		log.Warn().Err(err).Msg("Invalid persisted identity, clearing session")
		s.clearLocked()
		return
	}

	s.user = user
	s.authenticated = true
}

// Login exchanges credentials for a token pair and resolves the identity.
// On success both tokens and the identity are persisted before the result
// is returned; on any failure all session state is cleared and the
// backend's error message is surfaced in the result.
func (s *Store) Login(ctx context.Context, username, password string) LoginResult {
	tokenResponse, err := s.api.IssueToken(ctx, username, password)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Login failed")
		s.lock.Lock()
		s.clearLocked()
		s.lock.Unlock()
		return LoginResult{Error: authapi.ErrorMessage(err, genericLoginError)}
	}

	user := s.resolveIdentity(ctx, tokenResponse, username)

	serialized, err := json.Marshal(user)
	if err != nil {
		s.lock.Lock()
		s.clearLocked()
		s.lock.Unlock()
		return LoginResult{Error: genericLoginError}
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.persistLocked(tokenResponse.Access, tokenResponse.Refresh, string(serialized)); err != nil {
		log.Err(err).Msg("Failed to persist session")
		s.clearLocked()
		return LoginResult{Error: genericLoginError}
	}

	s.user = user
	s.authenticated = true

	return LoginResult{Success: true, User: user, IsAdmin: user.IsAdmin()}
}

// resolveIdentity picks the session identity with a fixed precedence:
// verified profile fetch, then the login response's inline identity, then
// the unverified claims embedded in the access token. Login never fails
// solely because the profile endpoint is unavailable.
func (s *Store) resolveIdentity(ctx context.Context, tokenResponse *authapi.TokenResponse, username string) *users.User {
	profile, err := s.api.Profile(ctx, tokenResponse.Access)
	if err == nil {
		return profile
	}
	log.Debug().Err(err).Msg("Profile endpoint unavailable, falling back")

	if tokenResponse.User != nil {
		return tokenResponse.User
	}

	if decoded, err := users.FromAccessToken(tokenResponse.Access); err == nil {
		return decoded
	}

	// Opaque token and no inline identity: the best we can assert is the
	// username the credentials were issued for.
	return &users.User{Username: username}
}

// Register delegates to the backend registration endpoint. The current
// session is unaffected regardless of outcome.
func (s *Store) Register(ctx context.Context, registration authapi.Registration) RegisterResult {
	if err := s.api.Register(ctx, registration); err != nil {
		log.Warn().Err(err).Msg("Registration failed")
		return RegisterResult{Error: authapi.ErrorMessage(err, "Registration failed")}
	}
	return RegisterResult{Success: true}
}

// Logout clears the local session unconditionally, then tells the backend
// to discard the refresh token. The server call is best-effort: its
// failure never resurrects or blocks the local teardown.
func (s *Store) Logout(ctx context.Context) {
	s.lock.Lock()
	refreshToken, hasRefresh := s.storage.Get(storage.RefreshTokenKey)
	s.clearLocked()
	s.lock.Unlock()

	if hasRefresh && refreshToken != "" {
		if err := s.api.Logout(ctx, refreshToken); err != nil {
			log.Debug().Err(err).Msg("Server-side logout failed")
		}
	}
}

// RefreshAccess exchanges the persisted refresh token for a new access
// token and persists it. Called by the gateway on an authorisation
// failure; the caller owns the decision to retry or tear down.
func (s *Store) RefreshAccess(ctx context.Context) (string, error) {
	refreshToken, ok := s.storage.Get(storage.RefreshTokenKey)
	if !ok || refreshToken == "" {
		return "", interrors.ErrNoRefreshToken
	}

	refreshResponse, err := s.api.RefreshToken(ctx, refreshToken)
	if err != nil {
		return "", errors.Wrap(err, "Store.RefreshAccess RefreshToken")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.storage.Set(storage.AccessTokenKey, refreshResponse.Access); err != nil {
		return "", errors.Wrap(err, "Store.RefreshAccess Set")
	}
	return refreshResponse.Access, nil
}

// Teardown ends the session without user action: everything persisted is
// cleared, in-memory state resets, and the session-expired hook fires.
func (s *Store) Teardown() {
	s.lock.Lock()
	s.clearLocked()
	hook := s.onExpired
	s.lock.Unlock()

	if hook != nil {
		hook()
	}
}

// IsAuthenticated reports whether a session is established.
func (s *Store) IsAuthenticated() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.authenticated
}

// IsAdmin reports whether the current identity may access admin views.
func (s *Store) IsAdmin() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.user != nil && s.user.IsAdmin()
}

// CurrentUser returns a copy of the session identity, or nil when no
// session is established.
func (s *Store) CurrentUser() *users.User {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// persistLocked writes the three session keys. Callers must hold the lock.
func (s *Store) persistLocked(accessToken, refreshToken, serializedUser string) error {
	if err := s.storage.Set(storage.AccessTokenKey, accessToken); err != nil {
		return err
	}
	if err := s.storage.Set(storage.RefreshTokenKey, refreshToken); err != nil {
		return err
	}
	return s.storage.Set(storage.UserKey, serializedUser)
}

// clearLocked resets persisted and in-memory state together. Callers must
// hold the lock.
func (s *Store) clearLocked() {
	if err := s.storage.Clear(); err != nil {
		log.Err(err).Msg("Failed to clear persisted session")
	}
	s.user = nil
	s.authenticated = false
}
