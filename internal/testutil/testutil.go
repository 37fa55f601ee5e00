// Package testutil provides common test utilities for the bookscout project.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookscout/internal/cache"
)

// SetupTestCache points the global cache at a fresh temp-file SQLite
// database and resets it again when the test completes. Viper state is
// reset on both sides so cache configuration never leaks between tests.
func SetupTestCache(t *testing.T) {
	t.Helper()

	require.NoError(t, cache.ResetGlobalCache())
	viper.Reset()

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	viper.Set("cache.dbfile", dbPath)
	viper.Set("cache.ttl", "1h")

	t.Cleanup(func() {
		_ = cache.ResetGlobalCache()
		viper.Reset()
	})
}
