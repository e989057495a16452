// Package terms maintains the per-language pool of discovery search queries
// and selects the next one to use. Selection never fails: with no pool and no
// content source it falls back to a static list.
package terms

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/abhishek9871/xbot/internal/content"
	"github.com/abhishek9871/xbot/internal/logging"
	"github.com/abhishek9871/xbot/internal/schedule"
	"github.com/abhishek9871/xbot/internal/store"
)

// recencyWindow excludes terms used within this span from selection
const recencyWindow = 24 * time.Hour

// tieBreakPool is how many of the top candidates the random tie-break
// chooses between
const tieBreakPool = 5

// ContentSource supplies current content titles for term generation
type ContentSource interface {
	Available() bool
	Discover(ctx context.Context, contentRegion, lang string) ([]content.Title, error)
}

// Selection is the chosen search term with its content context
type Selection struct {
	Term     string `json:"search_term"`
	Category string `json:"category"`
	Title    string `json:"title,omitempty"`
	TMDBID   int64  `json:"tmdb_id,omitempty"`
	Lang     string `json:"lang"`
}

// Manager owns term-pool generation and selection
type Manager struct {
	store   *store.Store
	content ContentSource

	evergreenProbability float64
	maxTermsPerTitle     int
	maxTitles            int

	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// New creates a term-pool manager. rnd is injected so tests can fix the
// sequence.
func New(s *store.Store, cs ContentSource, evergreenProbability float64, maxTermsPerTitle, maxTitles int, rnd *rand.Rand) *Manager {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Manager{
		store:                s,
		content:              cs,
		evergreenProbability: evergreenProbability,
		maxTermsPerTitle:     maxTermsPerTitle,
		maxTitles:            maxTitles,
		rnd:                  rnd,
		now:                  time.Now,
	}
}

// Next returns the next search term for a language. It prefers evergreen
// high-value queries with the configured probability, otherwise draws from
// the content-derived pool, generating it first if needed.
func (m *Manager) Next(ctx context.Context, langCode, contentRegion string) Selection {
	if m.roll() < m.evergreenProbability {
		if sel, ok := m.evergreen(langCode); ok {
			return sel
		}
	}

	count, err := m.store.CountTermsForLang(langCode)
	if err != nil {
		logging.Error("Term pool count failed", "lang", langCode, "error", err)
	}
	if count == 0 {
		m.Generate(ctx, langCode, contentRegion)
	}

	if sel, ok := m.selectFromPool(langCode); ok {
		return sel
	}

	// Every path failed; the static list keeps the caller moving
	return Selection{
		Term:     fallbackTerms[m.intn(len(fallbackTerms))],
		Category: CategoryEvergreen,
		Lang:     langCode,
	}
}

// Generate populates the pool for a language from current content titles.
// Returns how many new terms were inserted.
func (m *Manager) Generate(ctx context.Context, langCode, contentRegion string) int {
	var titles []content.Title
	if m.content != nil && m.content.Available() {
		var err error
		titles, err = m.content.Discover(ctx, contentRegion, langCode)
		if err != nil {
			logging.Warn("Content discovery failed, generating generic terms only", "lang", langCode, "error", err)
		}
	}

	var newTerms []store.SearchTerm

	templates := templatesFor(langCode)
	maxTitles := m.maxTitles
	if maxTitles > len(titles) {
		maxTitles = len(titles)
	}
	for _, title := range titles[:maxTitles] {
		perTitle := 0
		for _, category := range []string{CategoryDirect, CategoryDiscussion, CategoryFrustration, CategoryRecommendation} {
			for _, tpl := range templates[category] {
				if perTitle >= m.maxTermsPerTitle {
					break
				}
				newTerms = append(newTerms, store.SearchTerm{
					Term:       expand(tpl, title.Name),
					Lang:       langCode,
					Category:   category,
					MovieTitle: title.Name,
					TMDBID:     title.ID,
					Popularity: title.Popularity,
				})
				perTitle++
			}
		}
	}

	// Generic queries need no titles, so a dead content source still yields
	// a usable pool
	for _, tpl := range genericFor(langCode) {
		newTerms = append(newTerms, store.SearchTerm{
			Term:     tpl,
			Lang:     langCode,
			Category: CategoryGeneric,
		})
	}

	inserted, err := m.store.InsertTerms(newTerms)
	if err != nil {
		logging.Error("Term insert failed", "lang", langCode, "error", err)
		return 0
	}
	if inserted > 0 {
		logging.Info("Term pool updated", "lang", langCode, "new_terms", inserted)
	}
	return inserted
}

// evergreen picks one of the native-language high-value queries
func (m *Manager) evergreen(langCode string) (Selection, bool) {
	kw := schedule.KeywordsFor(langCode)
	if len(kw) == 0 {
		return Selection{}, false
	}
	return Selection{
		Term:     kw[m.intn(len(kw))],
		Category: CategoryEvergreen,
		Lang:     langCode,
	}, true
}

// selectFromPool picks a stored term, excluding recently-used entries unless
// that leaves nothing
func (m *Manager) selectFromPool(langCode string) (Selection, bool) {
	cutoff := m.now().UTC().Add(-recencyWindow)
	candidates, err := m.store.TermsForLang(langCode, cutoff)
	if err != nil {
		logging.Error("Term query failed", "lang", langCode, "error", err)
		return Selection{}, false
	}
	if len(candidates) == 0 {
		// All terms used recently; relax the recency constraint rather
		// than fail
		candidates, err = m.store.TermsForLang(langCode, time.Time{})
		if err != nil || len(candidates) == 0 {
			return Selection{}, false
		}
	}

	// Candidates arrive sorted by popularity desc; tie-break randomly among
	// the top few
	n := tieBreakPool
	if n > len(candidates) {
		n = len(candidates)
	}
	chosen := candidates[m.intn(n)]

	if err := m.store.MarkTermUsed(chosen.ID, m.now().UTC()); err != nil {
		logging.Error("Failed to stamp term usage", "term_id", chosen.ID, "error", err)
	}

	return Selection{
		Term:     chosen.Term,
		Category: chosen.Category,
		Title:    chosen.MovieTitle,
		TMDBID:   chosen.TMDBID,
		Lang:     chosen.Lang,
	}, true
}

func (m *Manager) roll() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rnd.Float64()
}

func (m *Manager) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rnd.Intn(n)
}
