package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "cache.json")

	fc, err := NewFileCache(path)
	require.NoError(t, err)

	_, ok := fc.Get(CountKey)
	assert.False(t, ok)

	require.NoError(t, fc.Set(CountKey, "12"))
	require.NoError(t, fc.Set(IncrementedKey, "true"))

	reopened, err := NewFileCache(path)
	require.NoError(t, err)

	got, ok := reopened.Get(CountKey)
	require.True(t, ok)
	assert.Equal(t, "12", got)

	got, ok = reopened.Get(IncrementedKey)
	require.True(t, ok)
	assert.Equal(t, "true", got)
}

func TestFileCache_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileCache(path)
	assert.Error(t, err)
}

func TestFileCache_SessionAcrossAgents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	counter := &fakeCounter{value: 100}

	first, err := NewFileCache(path)
	require.NoError(t, err)
	require.NoError(t, New(counter, first, WithBackoff(noBackoff)).Run(t.Context(), visibleOnce()))

	second, err := NewFileCache(path)
	require.NoError(t, err)
	a := New(counter, second, WithBackoff(noBackoff))
	require.NoError(t, a.Run(t.Context(), visibleOnce()))

	assert.Equal(t, 1, counter.count("increment"))
	assert.True(t, a.View().Incremented)
	assert.Equal(t, int64(101), a.View().Count)
}

func TestMemoryCache(t *testing.T) {
	mc := NewMemoryCache()
	_, ok := mc.Get("missing")
	assert.False(t, ok)

	require.NoError(t, mc.Set("k", "v"))
	got, ok := mc.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}
