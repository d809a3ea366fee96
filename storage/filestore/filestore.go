// Package filestore persists session state as a single JSON file under the
// client's data folder. Writes replace the whole file via a temp-file
// rename, so a reader never observes a half-written session.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/issuedesk/issuedesk-go/storage"
)

const fileName = "session.json"

var _ storage.Repo = (*FileStore)(nil)

// FileStore is a durable storage.Repo backed by a JSON file. A corrupt or
// missing file reads as an empty store rather than an error, matching the
// "no session" semantics of the interface.
type FileStore struct {
	path   string
	values map[string]string
	lock   sync.RWMutex
}

// New loads (or initialises) the session file inside dataFolder.
func New(dataFolder string) (*FileStore, error) {
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return nil, errors.Wrap(err, "filestore.New MkdirAll")
	}

	fs := &FileStore{
		path:   filepath.Join(dataFolder, fileName),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(fs.path)
	if err != nil {
		// Missing file means no previous session
		return fs, nil
	}
	if err := json.Unmarshal(data, &fs.values); err != nil {
		// Corrupt file: self-heal by starting empty
		fs.values = make(map[string]string)
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	value, ok := fs.values[key]
	return value, ok
}

func (fs *FileStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[key] = value
	return fs.flush()
}

func (fs *FileStore) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, key)
	return fs.flush()
}

func (fs *FileStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values = make(map[string]string)
	return fs.flush()
}

// flush writes the whole map to a temp file and renames it into place.
// Callers must hold the write lock.
func (fs *FileStore) flush() error {
	data, err := json.Marshal(fs.values)
	if err != nil {
		return errors.Wrap(err, "FileStore.flush Marshal")
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "FileStore.flush WriteFile")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "FileStore.flush Rename")
	}
	return nil
}
