package session_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/issuedesk/issuedesk-go/authapi"
	"github.com/issuedesk/issuedesk-go/internal/config"
	"github.com/issuedesk/issuedesk-go/session"
	"github.com/issuedesk/issuedesk-go/storage"
	fakestoragerepo "github.com/issuedesk/issuedesk-go/storage/repofake"
	"github.com/issuedesk/issuedesk-go/users"
)

const (
	testUsername     = "alice"
	testPassword     = "password123"
	testRefreshToken = "refresh-token-1"
	noAccountDetail  = "No active account found with the given credentials"
)

// backendOptions shapes the fake backend for a single test
type backendOptions struct {
	accessToken  string      // Access token issued by /token/ (default: a claims-bearing JWT)
	inlineUser   *users.User // Identity inlined in the /token/ response, when set
	profileUser  *users.User // Identity served by /profile/, when set
	wrapProfile  bool        // Serve the profile as {"user": {...}}
	logoutStatus int         // Status for /logout/ (default 200)
}

// testFixture holds all test dependencies
type testFixture struct {
	backend     *httptest.Server
	storageRepo *fakestoragerepo.FakeStorageRepo
	store       *session.Store
	expired     int
}

func newFixture(t *testing.T, opts backendOptions) *testFixture {
	t.Helper()

	if opts.accessToken == "" {
		opts.accessToken = makeUnsignedToken(t, map[string]any{
			"user_id":  float64(7),
			"username": testUsername,
		})
	}
	if opts.logoutStatus == 0 {
		opts.logoutStatus = http.StatusOK
	}

	fixture := &testFixture{
		storageRepo: fakestoragerepo.NewFakeStorageRepo(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var credentials map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&credentials))

		if credentials["username"] != testUsername || credentials["password"] != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": noAccountDetail})
			return
		}

		response := authapi.TokenResponse{
			Access:  opts.accessToken,
			Refresh: testRefreshToken,
			User:    opts.inlineUser,
		}
		_ = json.NewEncoder(w).Encode(response)
	})
	mux.HandleFunc("/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if opts.profileUser == nil {
			http.NotFound(w, r)
			return
		}
		require.Equal(t, "Bearer "+opts.accessToken, r.Header.Get("Authorization"))

		if opts.wrapProfile {
			_ = json.NewEncoder(w).Encode(map[string]any{"user": opts.profileUser})
			return
		}
		_ = json.NewEncoder(w).Encode(opts.profileUser)
	})
	mux.HandleFunc("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var request map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		if request["refresh"] != testRefreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "refreshed-access-token"})
	})
	mux.HandleFunc("/register/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var registration authapi.Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&registration))

		if registration.Username == testUsername {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"username": []string{"A user with that username already exists."},
			})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(registration)
	})
	mux.HandleFunc("/logout/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(opts.logoutStatus)
	})

	fixture.backend = httptest.NewServer(mux)
	t.Cleanup(fixture.backend.Close)

	api := authapi.New(config.Static{APIBaseURL: fixture.backend.URL})
	store, err := session.NewStore(api, fixture.storageRepo, session.WithSessionExpiredHook(func() {
		fixture.expired++
	}))
	require.NoError(t, err)
	fixture.store = store

	return fixture
}

// makeUnsignedToken builds a JWT-shaped token whose claims segment decodes
// but whose signature is junk, matching what the fallback decoder accepts.
func makeUnsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	encode := func(v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload := encode(claims)
	signature := base64.RawURLEncoding.EncodeToString([]byte("unsigned"))

	return header + "." + payload + "." + signature
}

func TestRestoreWithMalformedIdentityClearsEverything(t *testing.T) {
	fixture := newFixture(t, backendOptions{})
	require.NoError(t, fixture.storageRepo.Set(storage.AccessTokenKey, "some-token"))
	require.NoError(t, fixture.storageRepo.Set(storage.RefreshTokenKey, "some-refresh"))
	require.NoError(t, fixture.storageRepo.Set(storage.UserKey, "{not json"))

	fixture.store.Restore()

	require.False(t, fixture.store.IsAuthenticated())
	require.Nil(t, fixture.store.CurrentUser())
	require.Equal(t, 0, fixture.storageRepo.Len())
}

func TestRestoreWithPartialStateClearsEverything(t *testing.T) {
	fixture := newFixture(t, backendOptions{})
	require.NoError(t, fixture.storageRepo.Set(storage.AccessTokenKey, "some-token"))

	fixture.store.Restore()

	require.False(t, fixture.store.IsAuthenticated())
	require.Equal(t, 0, fixture.storageRepo.Len())
}

func TestRestoreWithNothingPersistedStaysUnauthenticated(t *testing.T) {
	fixture := newFixture(t, backendOptions{})

	fixture.store.Restore()

	require.False(t, fixture.store.IsAuthenticated())
	require.False(t, fixture.store.IsAdmin())
}

func TestLoginPrefersVerifiedProfile(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		profileUser: &users.User{ID: 7, Username: testUsername, FirstName: "Alice", IsStaff: true},
		wrapProfile: true,
		// The token claims disagree with the profile on purpose: the
		// verified profile must win.
		inlineUser: &users.User{ID: 7, Username: testUsername},
	})

	result := fixture.store.Login(context.Background(), testUsername, testPassword)

	require.True(t, result.Success)
	require.True(t, result.IsAdmin)
	require.Equal(t, "Alice", result.User.FirstName)
	require.True(t, fixture.store.IsAuthenticated())
	require.True(t, fixture.store.IsAdmin())
	require.Equal(t, 3, fixture.storageRepo.Len())
}

func TestLoginFallsBackToInlineIdentity(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		inlineUser: &users.User{ID: 7, Username: testUsername, IsSuperuser: true},
	})

	result := fixture.store.Login(context.Background(), testUsername, testPassword)

	require.True(t, result.Success)
	require.True(t, result.IsAdmin)
	require.Equal(t, testUsername, result.User.Username)
}

func TestLoginFallsBackToTokenClaims(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		accessToken: makeUnsignedToken(t, map[string]any{
			"user_id":  float64(7),
			"username": testUsername,
			"is_staff": true,
		}),
	})

	result := fixture.store.Login(context.Background(), testUsername, testPassword)

	require.True(t, result.Success)
	require.True(t, result.IsAdmin)
	require.Equal(t, int64(7), result.User.ID)
	require.Equal(t, testUsername, result.User.Username)
}

func TestLoginWithOpaqueTokenUsesMinimalIdentity(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		accessToken: "opaque-access-token",
	})

	result := fixture.store.Login(context.Background(), testUsername, testPassword)

	require.True(t, result.Success)
	require.False(t, result.IsAdmin)
	require.Equal(t, testUsername, result.User.Username)
}

func TestLoginWithWrongPasswordSurfacesBackendDetail(t *testing.T) {
	fixture := newFixture(t, backendOptions{})

	result := fixture.store.Login(context.Background(), testUsername, "wrong")

	require.False(t, result.Success)
	require.Equal(t, noAccountDetail, result.Error)
	require.False(t, fixture.store.IsAuthenticated())
	require.Equal(t, 0, fixture.storageRepo.Len())
}

func TestLoginWithUnreachableBackendReturnsGenericError(t *testing.T) {
	fixture := newFixture(t, backendOptions{})
	fixture.backend.Close()

	result := fixture.store.Login(context.Background(), testUsername, testPassword)

	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
	require.False(t, fixture.store.IsAuthenticated())
}

func TestLoginThenRestoreRoundTrip(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		profileUser: &users.User{ID: 7, Username: testUsername, IsStaff: true},
	})

	result := fixture.store.Login(context.Background(), testUsername, testPassword)
	require.True(t, result.Success)

	// Simulate a restart: a fresh store over the same persisted storage.
	api := authapi.New(config.Static{APIBaseURL: fixture.backend.URL})
	restarted, err := session.NewStore(api, fixture.storageRepo)
	require.NoError(t, err)

	restarted.Restore()

	require.Equal(t, fixture.store.IsAuthenticated(), restarted.IsAuthenticated())
	require.Equal(t, fixture.store.IsAdmin(), restarted.IsAdmin())
	require.Equal(t, fixture.store.CurrentUser(), restarted.CurrentUser())
}

func TestLogoutClearsStateEvenWhenServerFails(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		profileUser:  &users.User{ID: 7, Username: testUsername},
		logoutStatus: http.StatusInternalServerError,
	})

	result := fixture.store.Login(context.Background(), testUsername, testPassword)
	require.True(t, result.Success)

	fixture.store.Logout(context.Background())

	require.False(t, fixture.store.IsAuthenticated())
	require.Nil(t, fixture.store.CurrentUser())
	require.Equal(t, 0, fixture.storageRepo.Len())
}

func TestRegisterSurfacesFieldErrors(t *testing.T) {
	fixture := newFixture(t, backendOptions{})

	result := fixture.store.Register(context.Background(), authapi.Registration{
		Username: testUsername,
		Email:    "alice@example.com",
		Password: testPassword,
	})

	require.False(t, result.Success)
	require.Equal(t, "username: A user with that username already exists.", result.Error)
}

func TestRegisterDoesNotTouchSession(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		profileUser: &users.User{ID: 7, Username: testUsername},
	})

	loginResult := fixture.store.Login(context.Background(), testUsername, testPassword)
	require.True(t, loginResult.Success)

	registerResult := fixture.store.Register(context.Background(), authapi.Registration{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter22222",
	})

	require.True(t, registerResult.Success)
	require.True(t, fixture.store.IsAuthenticated())
	require.Equal(t, 3, fixture.storageRepo.Len())
}

func TestRefreshAccessPersistsNewToken(t *testing.T) {
	fixture := newFixture(t, backendOptions{})
	require.NoError(t, fixture.storageRepo.Set(storage.RefreshTokenKey, testRefreshToken))

	newAccess, err := fixture.store.RefreshAccess(context.Background())

	require.NoError(t, err)
	require.Equal(t, "refreshed-access-token", newAccess)
	persisted, ok := fixture.storageRepo.Get(storage.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "refreshed-access-token", persisted)
}

func TestRefreshAccessWithoutRefreshTokenFails(t *testing.T) {
	fixture := newFixture(t, backendOptions{})

	_, err := fixture.store.RefreshAccess(context.Background())

	require.Error(t, err)
}

func TestTeardownClearsStateAndFiresHook(t *testing.T) {
	fixture := newFixture(t, backendOptions{
		profileUser: &users.User{ID: 7, Username: testUsername},
	})
	result := fixture.store.Login(context.Background(), testUsername, testPassword)
	require.True(t, result.Success)

	fixture.store.Teardown()

	require.False(t, fixture.store.IsAuthenticated())
	require.Equal(t, 0, fixture.storageRepo.Len())
	require.Equal(t, 1, fixture.expired)
}
