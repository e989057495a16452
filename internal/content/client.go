// Package content wraps the external content-metadata source (TMDB-style
// API). Each query shape is cached in the store for a fixed TTL keyed by its
// exact query parameters; a shape that fails contributes zero items rather
// than failing the whole lookup.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abhishek9871/xbot/internal/logging"
	"github.com/abhishek9871/xbot/internal/store"
)

// Title is one content descriptor from the external source
type Title struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Year       string  `json:"year,omitempty"`
	MediaType  string  `json:"media_type"`
	Popularity float64 `json:"popularity"`
}

// Cache is the read-through cache the client persists raw responses to
type Cache interface {
	GetContentCache(cacheKey string) (*store.ContentCacheEntry, error)
	PutContentCache(entry *store.ContentCacheEntry) error
}

// Client queries the content-metadata source with caching and rate limiting
type Client struct {
	apiKey  string
	baseURL string
	cache   Cache
	ttl     time.Duration
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// New creates a content client. ttl bounds cache freshness; rps bounds the
// request rate against the external source.
func New(apiKey, baseURL string, cache Cache, ttl, timeout time.Duration, rps float64) *Client {
	if rps <= 0 {
		rps = 4
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		cache:   cache,
		ttl:     ttl,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		now:     time.Now,
	}
}

// Available reports whether the external source is configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Discover combines the four query shapes for a region/language, deduplicates
// by content ID (first occurrence wins) and sorts by popularity desc.
func (c *Client) Discover(ctx context.Context, contentRegion, lang string) ([]Title, error) {
	if !c.Available() {
		return nil, fmt.Errorf("content source not configured")
	}

	shapes := []struct {
		name   string
		path   string
		params url.Values
	}{
		{"now_playing", "/movie/now_playing", url.Values{"region": {contentRegion}, "language": {lang}}},
		{"trending", "/trending/all/week", url.Values{"language": {lang}}},
		{"discover_native", "/discover/movie", url.Values{
			"with_original_language": {lang},
			"region":                 {contentRegion},
			"sort_by":                {"popularity.desc"},
		}},
		{"airing_today", "/tv/airing_today", url.Values{"language": {lang}}},
	}

	results := make([][]Title, len(shapes))

	g, ctx := errgroup.WithContext(ctx)
	for i, shape := range shapes {
		g.Go(func() error {
			titles, err := c.fetchShape(ctx, shape.path, shape.params)
			if err != nil {
				// Partial degradation: a failed shape yields nothing
				logging.Warn("Content shape failed", "shape", shape.name, "error", err)
				return nil
			}
			results[i] = titles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var combined []Title
	for _, titles := range results {
		for _, t := range titles {
			if t.ID == 0 || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			combined = append(combined, t)
		}
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].Popularity > combined[j].Popularity
	})

	return combined, nil
}

// fetchShape returns titles for one query shape, serving from cache when the
// entry is younger than the TTL.
func (c *Client) fetchShape(ctx context.Context, path string, params url.Values) ([]Title, error) {
	cacheKey := path + "?" + params.Encode()

	if entry, err := c.cache.GetContentCache(cacheKey); err == nil && entry != nil {
		if c.now().Sub(entry.FetchedAt) < c.ttl {
			logging.Debug("Content cache hit", "key", cacheKey)
			return parseTitles([]byte(entry.Payload))
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path + "?" + params.Encode() + "&api_key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content source returned status %d: %s", resp.StatusCode, string(body))
	}

	titles, err := parseTitles(body)
	if err != nil {
		return nil, err
	}

	if err := c.cache.PutContentCache(&store.ContentCacheEntry{
		CacheKey:  cacheKey,
		Payload:   string(body),
		FetchedAt: c.now(),
	}); err != nil {
		logging.Warn("Failed to cache content response", "key", cacheKey, "error", err)
	}

	return titles, nil
}

// contentResponse mirrors the external source's list payload
type contentResponse struct {
	Results []struct {
		ID           int64   `json:"id"`
		Title        string  `json:"title"`
		Name         string  `json:"name"`
		ReleaseDate  string  `json:"release_date"`
		FirstAirDate string  `json:"first_air_date"`
		MediaType    string  `json:"media_type"`
		Popularity   float64 `json:"popularity"`
	} `json:"results"`
}

func parseTitles(body []byte) ([]Title, error) {
	var resp contentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse content response: %w", err)
	}

	titles := make([]Title, 0, len(resp.Results))
	for _, r := range resp.Results {
		name := r.Title
		mediaType := r.MediaType
		date := r.ReleaseDate
		if name == "" {
			name = r.Name
			if mediaType == "" {
				mediaType = "tv"
			}
			date = r.FirstAirDate
		}
		if mediaType == "" {
			mediaType = "movie"
		}
		if name == "" {
			continue
		}

		year := ""
		if len(date) >= 4 {
			year = date[:4]
		}

		titles = append(titles, Title{
			ID:         r.ID,
			Name:       name,
			Year:       year,
			MediaType:  mediaType,
			Popularity: r.Popularity,
		})
	}

	return titles, nil
}
