package cache

// WorkCacheTable caches /works/<id>.json detail responses, keyed by work key.
const WorkCacheTable = "work_cache"

// AuthorCacheTable caches author detail responses, keyed by author key.
const AuthorCacheTable = "author_cache"

// ValidCacheTableNames is the whitelist of cache tables, used to keep
// dynamically built queries away from arbitrary table names.
var ValidCacheTableNames = map[string]bool{
	WorkCacheTable:   true,
	AuthorCacheTable: true,
}

// AllCacheSchemas holds the CREATE TABLE statements run at startup.
var AllCacheSchemas = []string{
	`CREATE TABLE IF NOT EXISTS work_cache (
		cache_key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS author_cache (
		cache_key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}
