package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "no file is written until a value is set")
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte("[scan\nbroken"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_Getters(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("github.token", "ghp_x"))
	require.NoError(t, store.Set("scan.concurrency", 5))
	require.NoError(t, store.Set("scan.deep", true))
	require.NoError(t, store.Set("scan.max_repos", "12"))
	require.NoError(t, store.Set("scan.smart", "true"))

	assert.Equal(t, "ghp_x", store.GetString("github.token"))
	assert.Equal(t, 5, store.GetInt("scan.concurrency"))
	assert.True(t, store.GetBool("scan.deep"))

	t.Run("strings convert", func(t *testing.T) {
		assert.Equal(t, 12, store.GetInt("scan.max_repos"))
		assert.True(t, store.GetBool("scan.smart"))
	})

	t.Run("wrong types yield zero values", func(t *testing.T) {
		assert.Equal(t, "", store.GetString("scan.concurrency"))
		assert.Equal(t, 0, store.GetInt("github.token"))
		assert.False(t, store.GetBool("github.token"))
	})

	t.Run("missing keys", func(t *testing.T) {
		val, ok := store.Get("nope")
		assert.False(t, ok)
		assert.Nil(t, val)
		assert.Equal(t, 0, store.GetInt("nope"))
	})
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("github.token", "ghp_x"))
	require.NoError(t, store.Set("scan.concurrency", 4))
	require.NoError(t, store.Set("cache.enabled", false))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[scan]")
	assert.Contains(t, string(raw), "[github]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache.enabled", "github.token", "scan.concurrency"}, reloaded.Keys())
	assert.Equal(t, "ghp_x", reloaded.GetString("github.token"))
	assert.Equal(t, 4, reloaded.GetInt("scan.concurrency"))

	val, ok := reloaded.Get("cache.enabled")
	require.True(t, ok)
	assert.Equal(t, false, val)
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[github]
token = "ghp_file"

[scan]
concurrency = 7
deep = true
output_dir = "/tmp/reports"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_file", store.GetString("github.token"))
	assert.Equal(t, 7, store.GetInt("scan.concurrency"))
	assert.True(t, store.GetBool("scan.deep"))
	assert.Equal(t, "/tmp/reports", store.GetString("scan.output_dir"))
}

func TestConfigStore_SetReplacesConflictingKeys(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("scan.deep", true))

	require.NoError(t, store.Set("scan", "flat"))
	assert.Equal(t, []string{"scan"}, store.Keys())

	require.NoError(t, store.Set("scan.smart", true))
	assert.Equal(t, []string{"scan.smart"}, store.Keys())
}

func TestConfigStore_SetInvalidKey(t *testing.T) {
	store := newStore(t)

	for _, key := range []string{"", ".scan", "scan."} {
		assert.Error(t, store.Set(key, 1), key)
	}
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("github.token", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newStore(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("scan.concurrency", i)
			_ = store.GetInt("scan.concurrency")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"scan.concurrency"}, store.Keys())
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{"a.b.c": 1, "a.d": "x", "e": true}

	nested := nestMap(flat)

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": "x",
		},
		"e": true,
	}, nested)
	assert.Equal(t, flat, flattenMap(nested, ""))
}
