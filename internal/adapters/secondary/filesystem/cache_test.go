package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etemplate-service/internal/core/domain"
)

func TestCacheStore_PutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "egw_cache")
	cache := NewCacheStore(dir)
	key := domain.CacheKey("abc", "/addressbook/templates/default/edit.xet")

	before := time.Now().Add(-time.Second)
	require.NoError(t, cache.Put(context.Background(), key, []byte("<et2-vbox/>")))

	entry, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "<et2-vbox/>", string(entry.Body))
	assert.True(t, entry.ModTime.After(before))

	fi, err := os.Stat(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCacheStore_Overwrite(t *testing.T) {
	cache := NewCacheStore(t.TempDir())

	require.NoError(t, cache.Put(context.Background(), "k", []byte("one")))
	require.NoError(t, cache.Put(context.Background(), "k", []byte("two")))

	entry, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(entry.Body))
}

func TestCacheStore_Miss(t *testing.T) {
	cache := NewCacheStore(t.TempDir())

	_, err := cache.Get(context.Background(), "eT2-Cache-x--a-templates-default-b.xet")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCacheStore_Delete(t *testing.T) {
	cache := NewCacheStore(t.TempDir())

	require.NoError(t, cache.Put(context.Background(), "k", []byte("one")))
	require.NoError(t, cache.Delete(context.Background(), "k"))

	_, err := cache.Get(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, cache.Delete(context.Background(), "k"))
}

func TestCacheStore_InvalidKey(t *testing.T) {
	cache := NewCacheStore(t.TempDir())

	for _, key := range []string{"", "..", "a/b"} {
		assert.Error(t, cache.Put(context.Background(), key, []byte("x")), key)
		_, err := cache.Get(context.Background(), key)
		assert.Error(t, err, key)
		assert.Error(t, cache.Delete(context.Background(), key), key)
	}
}
