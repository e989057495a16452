package store

import (
	"database/sql"
)

// GetContentCache returns the cached response for a cache key, or nil if absent
func (s *Store) GetContentCache(cacheKey string) (*ContentCacheEntry, error) {
	var entry ContentCacheEntry
	err := s.db.QueryRow(`
		SELECT cache_key, payload, fetched_at FROM content_cache WHERE cache_key = ?
	`, cacheKey).Scan(&entry.CacheKey, &entry.Payload, &entry.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// PutContentCache stores or overwrites the cached response for a cache key
func (s *Store) PutContentCache(entry *ContentCacheEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO content_cache (cache_key, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, entry.CacheKey, entry.Payload, entry.FetchedAt)
	return err
}
