package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// GetTrends returns the cached trend list for a region, or nil if none
func (s *Store) GetTrends(region string) ([]string, error) {
	var trendsJSON string
	err := s.db.QueryRow(`SELECT trends FROM trend_cache WHERE region = ?`, region).Scan(&trendsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var trends []string
	if err := json.Unmarshal([]byte(trendsJSON), &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// UpsertTrends replaces the trend list for a region wholesale
func (s *Store) UpsertTrends(region string, trends []string, harvestedAt time.Time) error {
	trendsJSON, err := json.Marshal(trends)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO trend_cache (region, trends, harvested_at)
		VALUES (?, ?, ?)
		ON CONFLICT(region) DO UPDATE SET
			trends = excluded.trends,
			harvested_at = excluded.harvested_at
	`, region, string(trendsJSON), harvestedAt)

	return err
}
