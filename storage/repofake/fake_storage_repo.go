package fakestoragerepo

import (
	"sync"

	"github.com/issuedesk/issuedesk-go/storage"
)

var _ storage.Repo = (*FakeStorageRepo)(nil)

type FakeStorageRepo struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeStorageRepo() *FakeStorageRepo {
	return &FakeStorageRepo{
		values: make(map[string]string),
	}
}

func (sr *FakeStorageRepo) Get(key string) (string, bool) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	value, ok := sr.values[key]
	return value, ok
}

func (sr *FakeStorageRepo) Set(key, value string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.values[key] = value
	return nil
}

func (sr *FakeStorageRepo) Delete(key string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.values, key)
	return nil
}

func (sr *FakeStorageRepo) Clear() error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.values = make(map[string]string)
	return nil
}

// Len reports the number of stored keys. Test helper.
func (sr *FakeStorageRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	return len(sr.values)
}
