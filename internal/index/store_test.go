package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "profiles.json"), filepath.Join(dir, "queries.json"))

	keys, err := store.Load(context.Background(), Profiles)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "data", "profiles.json"), filepath.Join(dir, "data", "queries.json"))
	ctx := context.Background()

	want := []string{"a", "b", "c"}
	require.NoError(t, store.Save(ctx, Profiles, want))

	got, err := store.Load(ctx, Profiles)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	queries, err := store.Load(ctx, Queries)
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	store := NewFileStore(path, filepath.Join(dir, "queries.json"))

	_, err := store.Load(context.Background(), Profiles)
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, Profiles, storeErr.Domain)

	// a corrupt store must not stop the index from starting
	idx := New(context.Background(), store)
	assert.Equal(t, 0, idx.Len(Profiles))
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "p.json"), filepath.Join(dir, "q.json"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Queries, []string{"x", "y"}))
	require.NoError(t, store.Save(ctx, Queries, nil))

	got, err := store.Load(ctx, Queries)
	require.NoError(t, err)
	assert.Empty(t, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should be cleaned up")
}

func TestFileStore_UnknownDomain(t *testing.T) {
	store := NewFileStore("p.json", "q.json")
	_, err := store.Load(context.Background(), Domain("other"))
	assert.Error(t, err)
}
