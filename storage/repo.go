package storage

// Well-known keys under which session state is persisted. The names are
// fixed so that a session written by one build of the client is found by
// the next.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	UserKey         = "user"
)

// Repo defines the interface for the persisted key-value session storage.
// It is the single shared mutable resource between the session store and
// the gateway's refresh path; every write is a whole-value replacement.
// Missing or unreadable entries read as absent rather than erroring.
type Repo interface {
	// Get returns the value for a key, or ok=false when absent
	Get(key string) (value string, ok bool)

	// Set stores a value under a key, replacing any previous value
	Set(key, value string) error

	// Delete removes a key; deleting an absent key is not an error
	Delete(key string) error

	// Clear removes every key
	Clear() error
}
