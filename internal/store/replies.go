package store

import (
	"time"
)

// InsertReply records a confirmed reply. A second insert for the same
// tweet_id is silently dropped; the first write wins.
func (s *Store) InsertReply(r *RepliedTweet) error {
	_, err := s.db.Exec(`
		INSERT INTO replied_tweets (tweet_id, user_handle, timestamp, region, language, reply_text, search_term, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tweet_id) DO NOTHING
	`, r.TweetID, r.UserHandle, r.Timestamp, r.Region, r.Language, r.ReplyText, r.SearchTerm, r.Sentiment)

	return err
}

// HasReplied reports whether a reply for this tweet has been logged
func (s *Store) HasReplied(tweetID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM replied_tweets WHERE tweet_id = ?)`, tweetID).Scan(&exists)
	return exists, err
}

// CountRepliesSince returns how many replies were logged for a user after the cutoff
func (s *Store) CountRepliesSince(userHandle string, cutoff time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM replied_tweets WHERE user_handle = ? AND timestamp > ?
	`, userHandle, cutoff).Scan(&count)
	return count, err
}

// InsertScanned records a skipped tweet. Inserting the same tweet_id twice
// is a no-op, not an error.
func (s *Store) InsertScanned(t *ScannedTweet) error {
	_, err := s.db.Exec(`
		INSERT INTO scanned_tweets (tweet_id, scanned_at, skip_reason)
		VALUES (?, ?, ?)
		ON CONFLICT(tweet_id) DO NOTHING
	`, t.TweetID, t.ScannedAt, t.SkipReason)

	return err
}

// HasScanned reports whether this tweet was already evaluated and skipped
func (s *Store) HasScanned(tweetID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM scanned_tweets WHERE tweet_id = ?)`, tweetID).Scan(&exists)
	return exists, err
}

// GetStats aggregates reply activity. "Today" means since UTC midnight.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{
		ByLanguage:  make(map[string]int),
		BySentiment: make(map[string]int),
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM replied_tweets`).Scan(&stats.TotalReplies); err != nil {
		return nil, err
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM replied_tweets WHERE timestamp > ?`, midnight).Scan(&stats.RepliesToday); err != nil {
		return nil, err
	}

	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT user_handle) FROM replied_tweets`).Scan(&stats.UniqueUsers); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT language, COUNT(*) FROM replied_tweets GROUP BY language`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, err
		}
		if lang != "" {
			stats.ByLanguage[lang] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sentRows, err := s.db.Query(`SELECT sentiment, COUNT(*) FROM replied_tweets WHERE sentiment != '' GROUP BY sentiment`)
	if err != nil {
		return nil, err
	}
	defer sentRows.Close()
	for sentRows.Next() {
		var sentiment string
		var count int
		if err := sentRows.Scan(&sentiment, &count); err != nil {
			return nil, err
		}
		stats.BySentiment[sentiment] = count
	}

	return stats, sentRows.Err()
}
