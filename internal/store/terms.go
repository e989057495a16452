package store

import (
	"database/sql"
	"fmt"
	"time"
)

// InsertTerms adds newly-synthesized terms to the pool, skipping any
// (term, lang) pair already present. Returns the number actually inserted.
func (s *Store) InsertTerms(terms []SearchTerm) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO search_terms (term, lang, category, movie_title, tmdb_id, popularity)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(term, lang) DO NOTHING
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range terms {
		result, err := stmt.Exec(t.Term, t.Lang, t.Category, t.MovieTitle, t.TMDBID, t.Popularity)
		if err != nil {
			// ON CONFLICT already absorbs duplicates; anything left is a
			// real failure and the whole batch rolls back
			return 0, fmt.Errorf("insert term %q: %w", t.Term, err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			inserted++
		}
	}

	return inserted, tx.Commit()
}

// TermsForLang returns the pool for a language ordered by popularity desc.
// When usedBefore is non-zero, terms used at or after it are excluded.
func (s *Store) TermsForLang(lang string, usedBefore time.Time) ([]SearchTerm, error) {
	query := `
		SELECT id, term, lang, category, movie_title, tmdb_id, popularity, last_used_at, use_count
		FROM search_terms
		WHERE lang = ?
	`
	args := []any{lang}
	if !usedBefore.IsZero() {
		query += ` AND (last_used_at IS NULL OR last_used_at < ?)`
		args = append(args, usedBefore)
	}
	query += ` ORDER BY popularity DESC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTerms(rows)
}

// MarkTermUsed stamps a selection: last_used_at = now, use_count incremented
func (s *Store) MarkTermUsed(id int64, usedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE search_terms SET last_used_at = ?, use_count = use_count + 1 WHERE id = ?
	`, usedAt, id)
	return err
}

// CountTermsForLang returns the pool size for a language
func (s *Store) CountTermsForLang(lang string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM search_terms WHERE lang = ?`, lang).Scan(&count)
	return count, err
}

func scanTerms(rows *sql.Rows) ([]SearchTerm, error) {
	var terms []SearchTerm
	for rows.Next() {
		var t SearchTerm
		var movieTitle sql.NullString
		var tmdbID sql.NullInt64
		var lastUsed sql.NullTime

		err := rows.Scan(&t.ID, &t.Term, &t.Lang, &t.Category, &movieTitle, &tmdbID, &t.Popularity, &lastUsed, &t.UseCount)
		if err != nil {
			return nil, err
		}

		t.MovieTitle = movieTitle.String
		t.TMDBID = tmdbID.Int64
		if lastUsed.Valid {
			used := lastUsed.Time
			t.LastUsedAt = &used
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
