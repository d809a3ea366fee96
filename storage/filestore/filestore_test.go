package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/issuedesk/issuedesk-go/storage"
	"github.com/issuedesk/issuedesk-go/storage/filestore"
)

func TestValuesSurviveReopen(t *testing.T) {
	folder := t.TempDir()

	store, err := filestore.New(folder)
	require.NoError(t, err)
	require.NoError(t, store.Set(storage.AccessTokenKey, "token-1"))
	require.NoError(t, store.Set(storage.UserKey, `{"username":"alice"}`))

	reopened, err := filestore.New(folder)
	require.NoError(t, err)

	value, ok := reopened.Get(storage.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "token-1", value)
}

func TestMissingKeyReadsAsAbsent(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get(storage.RefreshTokenKey)
	require.False(t, ok)
}

func TestCorruptFileReadsAsEmpty(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "session.json"), []byte("{corrupt"), 0o600))

	store, err := filestore.New(folder)
	require.NoError(t, err)

	_, ok := store.Get(storage.AccessTokenKey)
	require.False(t, ok)
}

func TestClearRemovesEverythingDurably(t *testing.T) {
	folder := t.TempDir()

	store, err := filestore.New(folder)
	require.NoError(t, err)
	require.NoError(t, store.Set(storage.AccessTokenKey, "token-1"))
	require.NoError(t, store.Set(storage.RefreshTokenKey, "refresh-1"))
	require.NoError(t, store.Clear())

	reopened, err := filestore.New(folder)
	require.NoError(t, err)

	_, ok := reopened.Get(storage.AccessTokenKey)
	require.False(t, ok)
	_, ok = reopened.Get(storage.RefreshTokenKey)
	require.False(t, ok)
}

func TestDeleteRemovesSingleKey(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(storage.AccessTokenKey, "token-1"))
	require.NoError(t, store.Set(storage.RefreshTokenKey, "refresh-1"))

	require.NoError(t, store.Delete(storage.AccessTokenKey))

	_, ok := store.Get(storage.AccessTokenKey)
	require.False(t, ok)
	value, ok := store.Get(storage.RefreshTokenKey)
	require.True(t, ok)
	require.Equal(t, "refresh-1", value)
}
