package testruns

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "test-results.json"))
	require.NoError(t, err)
	return store
}

func TestStoreEmpty(t *testing.T) {
	store := newTestStore(t)

	runs, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, runs)

	raw, err := store.LoadRaw()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	data, err := os.ReadFile(filepath.Join("testdata", "runs.json"))
	require.NoError(t, err)

	count, err := store.Save(data)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	runs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-002", runs[1].Run.RunID)

	raw, err := store.LoadRaw()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(raw))

	written, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(written), "\n  {\n    \"run\"")
}

func TestStoreSaveWithByteOrderMark(t *testing.T) {
	store := newTestStore(t)

	count, err := store.Save([]byte("\ufeff[{\"run\": {\"run_id\": \"x\"}}]\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	written, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), "["))

	runs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "x", runs[0].Run.RunID)
}

func TestStoreRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save([]byte(`[{"run": {"run_id": "keep"}}]`))
	require.NoError(t, err)

	_, err = store.Save([]byte(`{"not": "an array"}`))
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = store.Save([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	runs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "keep", runs[0].Run.RunID)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStoreCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("garbage"), 0644))

	runs, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save([]byte(`[]`))
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}
