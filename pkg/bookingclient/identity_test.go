package bookingclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIdentity_GeneratesAndPersists(t *testing.T) {
	store := NewMemoryIdentityStore()

	first, err := EnsureIdentity(store)
	require.NoError(t, err)
	_, parseErr := uuid.Parse(first)
	assert.NoError(t, parseErr, "identity must be a valid UUID")

	// The same store always yields the same identity.
	second, err := EnsureIdentity(store)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureIdentity_ReplacesCorruptValue(t *testing.T) {
	store := NewMemoryIdentityStore()
	require.NoError(t, store.Save("not-a-uuid"))

	id, err := EnsureIdentity(store)
	require.NoError(t, err)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
	assert.NotEqual(t, "not-a-uuid", id)
}

func TestFileIdentityStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "client-id")
	store := NewFileIdentityStore(path)

	id, err := EnsureIdentity(store)
	require.NoError(t, err)

	// A fresh store over the same path sees the same identity, like a
	// browser reopening with its localStorage intact.
	reopened := NewFileIdentityStore(path)
	loaded, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, id, loaded)
}

func TestFileIdentityStore_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client-id")
	id := uuid.NewString()
	require.NoError(t, os.WriteFile(path, []byte(id+"\n"), 0o600))

	store := NewFileIdentityStore(path)
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, id, loaded)
}

func TestMemorySelectionCache_WatchSeesLatestOnly(t *testing.T) {
	cache := NewMemorySelectionCache()
	defer cache.Close()

	watch := cache.Watch()

	// Rapid replaces: a slow watcher must still end on the newest set.
	cache.Replace([]string{"A1"})
	cache.Replace([]string{"A1", "A2"})
	cache.Replace([]string{"A2"})

	assert.Equal(t, []string{"A2"}, <-watch)
	assert.Equal(t, []string{"A2"}, cache.Seats())
}

func TestMemorySelectionCache_ReplaceCopiesInput(t *testing.T) {
	cache := NewMemorySelectionCache()
	defer cache.Close()

	input := []string{"A1", "A2"}
	cache.Replace(input)
	input[0] = "mutated"

	assert.Equal(t, []string{"A1", "A2"}, cache.Seats())
}

func TestMemorySelectionCache_CloseEndsWatchers(t *testing.T) {
	cache := NewMemorySelectionCache()
	watch := cache.Watch()

	cache.Close()

	_, open := <-watch
	assert.False(t, open, "watch channels close with the cache")
}
