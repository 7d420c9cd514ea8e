package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DumpAndLoadContentsRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	contents := map[string]string{
		"https://a.example/": "hello world",
		"https://b.example/": "goodbye world",
	}
	require.NoError(t, store.DumpContents(contents))

	loaded, err := store.LoadContents()
	require.NoError(t, err)
	assert.Equal(t, contents, loaded)
}

func TestStore_DumpAndLoadReferencesRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	references := map[string][]string{
		"https://a.example/": {"https://b.example/", "https://c.example/"},
	}
	require.NoError(t, store.DumpReferences(references))

	loaded, err := store.LoadReferences()
	require.NoError(t, err)
	assert.ElementsMatch(t, references["https://a.example/"], loaded["https://a.example/"])
}
