package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; serializing through one connection keeps
	// concurrent handler writes from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS replied_tweets (
		tweet_id TEXT PRIMARY KEY,
		user_handle TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		region TEXT,
		language TEXT,
		reply_text TEXT,
		search_term TEXT,
		sentiment TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_replied_user_handle ON replied_tweets(user_handle);
	CREATE INDEX IF NOT EXISTS idx_replied_timestamp ON replied_tweets(timestamp);

	CREATE TABLE IF NOT EXISTS scanned_tweets (
		tweet_id TEXT PRIMARY KEY,
		scanned_at DATETIME NOT NULL,
		skip_reason TEXT
	);

	CREATE TABLE IF NOT EXISTS trend_cache (
		region TEXT PRIMARY KEY,
		trends TEXT NOT NULL,
		harvested_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS search_terms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		term TEXT NOT NULL,
		lang TEXT NOT NULL,
		category TEXT NOT NULL,
		movie_title TEXT,
		tmdb_id INTEGER,
		popularity REAL DEFAULT 0,
		last_used_at DATETIME,
		use_count INTEGER DEFAULT 0,
		UNIQUE(term, lang)
	);

	CREATE INDEX IF NOT EXISTS idx_search_terms_lang ON search_terms(lang);

	CREATE TABLE IF NOT EXISTS content_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}
