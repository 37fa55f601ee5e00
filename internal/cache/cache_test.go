package cache

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedWork struct {
	Title      string   `json:"title"`
	AuthorKeys []string `json:"author_keys"`
}

func setupCache(t *testing.T) {
	t.Helper()

	require.NoError(t, ResetGlobalCache())
	viper.Reset()
	viper.Set("cache.dbfile", filepath.Join(t.TempDir(), "cache.db"))
	viper.Set("cache.ttl", "1h")

	t.Cleanup(func() {
		_ = ResetGlobalCache()
		viper.Reset()
	})
}

func TestGetOrFetchCachesSecondCall(t *testing.T) {
	setupCache(t)

	var fetches int
	fetch := func() (*cachedWork, error) {
		fetches++
		return &cachedWork{Title: "Dune", AuthorKeys: []string{"/authors/OL1A"}}, nil
	}

	first, fromCache, err := GetOrFetch(WorkCacheTable, "/works/OL1W", fetch)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "Dune", first.Title)

	second, fromCache, err := GetOrFetch(WorkCacheTable, "/works/OL1W", fetch)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches, "second call must be served from cache")
}

func TestGetOrFetchPropagatesFetchError(t *testing.T) {
	setupCache(t)

	wantErr := assert.AnError
	_, fromCache, err := GetOrFetch(WorkCacheTable, "/works/OL404W", func() (*cachedWork, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.False(t, fromCache)

	// A failed fetch must not poison the cache.
	result, fromCache, err := GetOrFetch(WorkCacheTable, "/works/OL404W", func() (*cachedWork, error) {
		return &cachedWork{Title: "Recovered"}, nil
	})
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "Recovered", result.Title)
}

func TestCacheTableIsolation(t *testing.T) {
	setupCache(t)

	cacheDB, err := GetGlobalCache()
	require.NoError(t, err)

	require.NoError(t, cacheDB.Set(WorkCacheTable, "key", `{"title":"Work"}`))
	require.NoError(t, cacheDB.Set(AuthorCacheTable, "key", `"Author Name"`))

	workData, ok, err := cacheDB.Get(WorkCacheTable, "key", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	var work cachedWork
	require.NoError(t, json.Unmarshal([]byte(workData), &work))
	assert.Equal(t, "Work", work.Title)

	authorData, ok, err := cacheDB.Get(AuthorCacheTable, "key", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"Author Name"`, authorData)
}

func TestGetRejectsUnknownTable(t *testing.T) {
	setupCache(t)

	cacheDB, err := GetGlobalCache()
	require.NoError(t, err)

	_, _, err = cacheDB.Get("favorites; DROP TABLE work_cache", "key", time.Hour)
	require.Error(t, err)

	err = cacheDB.Set("bogus_cache", "key", "data")
	require.Error(t, err)
}

func TestClearAll(t *testing.T) {
	setupCache(t)

	cacheDB, err := GetGlobalCache()
	require.NoError(t, err)

	require.NoError(t, cacheDB.Set(WorkCacheTable, "key", `{}`))
	require.NoError(t, cacheDB.ClearAll(WorkCacheTable))

	_, ok, err := cacheDB.Get(WorkCacheTable, "key", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}
