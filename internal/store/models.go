package store

import "time"

// RepliedTweet is the record of a confirmed, posted reply
type RepliedTweet struct {
	TweetID    string    `json:"tweet_id"`
	UserHandle string    `json:"user_handle"`
	Timestamp  time.Time `json:"timestamp"`
	Region     string    `json:"region"`
	Language   string    `json:"language"`
	ReplyText  string    `json:"reply_text"`
	SearchTerm string    `json:"search_term,omitempty"`
	Sentiment  string    `json:"sentiment,omitempty"`
}

// ScannedTweet records that a tweet was evaluated and skipped
type ScannedTweet struct {
	TweetID    string    `json:"tweet_id"`
	ScannedAt  time.Time `json:"scanned_at"`
	SkipReason string    `json:"skip_reason"`
}

// SearchTerm is one candidate discovery query in the term pool
type SearchTerm struct {
	ID         int64      `json:"id"`
	Term       string     `json:"term"`
	Lang       string     `json:"lang"`
	Category   string     `json:"category"`
	MovieTitle string     `json:"movie_title,omitempty"`
	TMDBID     int64      `json:"tmdb_id,omitempty"`
	Popularity float64    `json:"popularity"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	UseCount   int        `json:"use_count"`
}

// ContentCacheEntry is a cached raw response from the content-metadata source
type ContentCacheEntry struct {
	CacheKey  string    `json:"cache_key"`
	Payload   string    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Stats aggregates reply activity
type Stats struct {
	TotalReplies int            `json:"total_replies"`
	RepliesToday int            `json:"replies_today"`
	UniqueUsers  int            `json:"unique_users"`
	ByLanguage   map[string]int `json:"by_language"`
	BySentiment  map[string]int `json:"by_sentiment"`
}
