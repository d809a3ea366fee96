// Package issuedesk wires the IssueDesk client together: configuration,
// persisted session storage, the session store, the gateway, and the
// typed resource clients. Embedding applications construct one Client and
// hand its Session to their route guards.
package issuedesk

import (
	"net/http"

	"github.com/issuedesk/issuedesk-go/activity"
	"github.com/issuedesk/issuedesk-go/authapi"
	"github.com/issuedesk/issuedesk-go/comments"
	"github.com/issuedesk/issuedesk-go/employees"
	"github.com/issuedesk/issuedesk-go/gateway"
	"github.com/issuedesk/issuedesk-go/internal/config"
	"github.com/issuedesk/issuedesk-go/issues"
	"github.com/issuedesk/issuedesk-go/reviews"
	"github.com/issuedesk/issuedesk-go/session"
	"github.com/issuedesk/issuedesk-go/storage"
	"github.com/issuedesk/issuedesk-go/storage/filestore"
)

// Config is the configuration surface the client reads. The default
// implementation resolves every value from environment variables.
type Config = config.Config

// NewConfig returns the environment-variable backed configuration.
func NewConfig() Config {
	return config.New()
}

// Client is the assembled IssueDesk client.
type Client struct {
	Session   *session.Store
	Gateway   *gateway.Client
	Issues    *issues.Client
	Comments  *comments.Client
	Reviews   *reviews.Client
	Employees *employees.Client
	Activity  *activity.Client
}

type settings struct {
	storageRepo storage.Repo
	httpClient  *http.Client
	expiredHook func()
}

// Option defines a function type to modify the assembled client.
type Option func(*settings)

// WithStorage overrides the persisted session storage. The default is a
// JSON file store under the configured data folder.
func WithStorage(repo storage.Repo) Option {
	return func(s *settings) {
		s.storageRepo = repo
	}
}

// WithHTTPClient overrides the HTTP client used for every request.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithSessionExpiredHook registers the callback fired when the session
// ends without an explicit logout, typically to navigate to a login view.
func WithSessionExpiredHook(hook func()) Option {
	return func(s *settings) {
		s.expiredHook = hook
	}
}

// New assembles a client and restores any persisted session, so callers
// can consult Session.IsAuthenticated immediately.
func New(cfg Config, options ...Option) (*Client, error) {
	s := &settings{}
	for _, option := range options {
		option(s)
	}

	if s.storageRepo == nil {
		fileStore, err := filestore.New(cfg.GetDataFolder())
		if err != nil {
			return nil, err
		}
		s.storageRepo = fileStore
	}

	var authOptions []authapi.Option
	var gatewayOptions []gateway.Option
	if s.httpClient != nil {
		authOptions = append(authOptions, authapi.WithHTTPClient(s.httpClient))
		gatewayOptions = append(gatewayOptions, gateway.WithHTTPClient(s.httpClient))
	}

	var storeOptions []session.StoreOption
	if s.expiredHook != nil {
		storeOptions = append(storeOptions, session.WithSessionExpiredHook(s.expiredHook))
	}

	sessionStore, err := session.NewStore(authapi.New(cfg, authOptions...), s.storageRepo, storeOptions...)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(cfg, s.storageRepo, sessionStore, gatewayOptions...)
	if err != nil {
		return nil, err
	}

	sessionStore.Restore()

	return &Client{
		Session:   sessionStore,
		Gateway:   gw,
		Issues:    issues.NewClient(gw),
		Comments:  comments.NewClient(gw),
		Reviews:   reviews.NewClient(gw),
		Employees: employees.NewClient(gw),
		Activity:  activity.NewClient(gw),
	}, nil
}
