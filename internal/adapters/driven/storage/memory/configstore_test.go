package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		store := NewConfigStore()
		assert.Empty(t, store.Keys())
	})

	t.Run("seeded", func(t *testing.T) {
		store := NewConfigStore(map[string]any{"scan.concurrency": 5}, map[string]any{"scan.deep": true})
		assert.Equal(t, []string{"scan.concurrency", "scan.deep"}, store.Keys())
	})
}

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("github.token", "ghp_x"))
	require.NoError(t, store.Set("github.token", "ghp_y"))

	val, ok := store.Get("github.token")
	assert.True(t, ok)
	assert.Equal(t, "ghp_y", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"str":        "value",
		"int":        7,
		"int64":      int64(8),
		"float":      9.0,
		"int_string": "10",
		"bool":       true,
		"bool_str":   "true",
		"bad":        []string{"x"},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("str"), "value"},
		{"string wrong type", store.GetString("int"), ""},
		{"string missing", store.GetString("nope"), ""},
		{"int", store.GetInt("int"), 7},
		{"int64", store.GetInt("int64"), 8},
		{"float", store.GetInt("float"), 9},
		{"numeric string", store.GetInt("int_string"), 10},
		{"int wrong type", store.GetInt("bad"), 0},
		{"bool", store.GetBool("bool"), true},
		{"bool string", store.GetBool("bool_str"), true},
		{"bool missing", store.GetBool("nope"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_NoopPersistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
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
