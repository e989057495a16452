package content

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/abhishek9871/xbot/internal/store"
)

// contentServer fakes the external metadata source, counting requests per path
type contentServer struct {
	mu       sync.Mutex
	requests map[string]int
	payloads map[string]string
	fail     map[string]bool
}

func newContentServer() *contentServer {
	return &contentServer{
		requests: make(map[string]int),
		payloads: make(map[string]string),
		fail:     make(map[string]bool),
	}
}

func (cs *contentServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.requests[r.URL.Path]++
		payload, ok := cs.payloads[r.URL.Path]
		fail := cs.fail[r.URL.Path]
		cs.mu.Unlock()

		if fail {
			http.Error(w, `{"status_message":"boom"}`, http.StatusInternalServerError)
			return
		}
		if !ok {
			payload = `{"results":[]}`
		}
		fmt.Fprint(w, payload)
	})
}

func (cs *contentServer) count(path string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.requests[path]
}

func newTestClient(t *testing.T, baseURL string, ttl time.Duration) *Client {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New("test-key", baseURL, s, ttl, 5*time.Second, 1000)
}

func TestDiscoverDeduplicatesAndSorts(t *testing.T) {
	cs := newContentServer()
	cs.payloads["/movie/now_playing"] = `{"results":[
		{"id": 1, "title": "Dune: Part Two", "release_date": "2024-03-01", "popularity": 500},
		{"id": 2, "title": "Oppenheimer", "release_date": "2023-07-21", "popularity": 300}
	]}`
	cs.payloads["/trending/all/week"] = `{"results":[
		{"id": 1, "title": "Dune: Part Two", "release_date": "2024-03-01", "popularity": 999},
		{"id": 3, "name": "Shogun", "first_air_date": "2024-02-27", "media_type": "tv", "popularity": 800}
	]}`

	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Hour)
	titles, err := c.Discover(context.Background(), "US", "en")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(titles) != 3 {
		t.Fatalf("expected 3 deduplicated titles, got %d: %v", len(titles), titles)
	}

	// First occurrence wins the dedupe, so Dune keeps popularity 500 from
	// now_playing and Shogun (800) sorts first
	if titles[0].Name != "Shogun" {
		t.Errorf("expected Shogun first by popularity, got %q", titles[0].Name)
	}
	for _, title := range titles {
		if title.Name == "Dune: Part Two" && title.Popularity != 500 {
			t.Errorf("dedupe should keep the first occurrence, got popularity %v", title.Popularity)
		}
	}
}

func TestDiscoverPartialFailure(t *testing.T) {
	cs := newContentServer()
	cs.payloads["/movie/now_playing"] = `{"results":[{"id": 1, "title": "Dune: Part Two", "popularity": 500}]}`
	cs.fail["/trending/all/week"] = true
	cs.fail["/discover/movie"] = true
	cs.fail["/tv/airing_today"] = true

	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Hour)
	titles, err := c.Discover(context.Background(), "US", "en")
	if err != nil {
		t.Fatalf("Discover should tolerate failing shapes: %v", err)
	}
	if len(titles) != 1 || titles[0].Name != "Dune: Part Two" {
		t.Errorf("expected only the surviving shape's titles, got %v", titles)
	}
}

func TestFetchShapeCacheTTL(t *testing.T) {
	cs := newContentServer()
	cs.payloads["/movie/now_playing"] = `{"results":[{"id": 1, "title": "Dune: Part Two", "popularity": 500}]}`

	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	ttl := 6 * time.Hour
	c := newTestClient(t, srv.URL, ttl)

	fetchedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fetchedAt }

	if _, err := c.Discover(context.Background(), "US", "en"); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if got := cs.count("/movie/now_playing"); got != 1 {
		t.Fatalf("expected 1 network call, got %d", got)
	}

	// Just inside the TTL: served from cache
	c.now = func() time.Time { return fetchedAt.Add(ttl - time.Minute) }
	if _, err := c.Discover(context.Background(), "US", "en"); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if got := cs.count("/movie/now_playing"); got != 1 {
		t.Errorf("expected cache hit within TTL, got %d network calls", got)
	}

	// Just past the TTL: refetched
	c.now = func() time.Time { return fetchedAt.Add(ttl + time.Minute) }
	if _, err := c.Discover(context.Background(), "US", "en"); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if got := cs.count("/movie/now_playing"); got != 2 {
		t.Errorf("expected refetch past TTL, got %d network calls", got)
	}
}

func TestFetchShapeCacheKeyedByParams(t *testing.T) {
	cs := newContentServer()
	srv := httptest.NewServer(cs.handler())
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Hour)

	if _, err := c.Discover(context.Background(), "US", "en"); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if _, err := c.Discover(context.Background(), "FR", "fr"); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	// Different params means different cache keys, so a second region pays
	// its own network calls
	if got := cs.count("/movie/now_playing"); got != 2 {
		t.Errorf("expected 2 network calls for distinct params, got %d", got)
	}
}

func TestDiscoverUnavailableWithoutKey(t *testing.T) {
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	defer s.Close()

	c := New("", "http://unused", s, time.Hour, time.Second, 10)
	if c.Available() {
		t.Error("client without key should report unavailable")
	}
	if _, err := c.Discover(context.Background(), "US", "en"); err == nil {
		t.Error("expected error from unconfigured client")
	}
}

func TestParseTitles(t *testing.T) {
	titles, err := parseTitles([]byte(`{"results":[
		{"id": 1, "title": "Dune: Part Two", "release_date": "2024-03-01", "popularity": 500},
		{"id": 2, "name": "Shogun", "first_air_date": "2024-02-27", "popularity": 800},
		{"id": 3, "popularity": 100}
	]}`))
	if err != nil {
		t.Fatalf("parseTitles failed: %v", err)
	}

	if len(titles) != 2 {
		t.Fatalf("expected nameless entries dropped, got %d titles", len(titles))
	}
	if titles[0].Year != "2024" || titles[0].MediaType != "movie" {
		t.Errorf("unexpected movie parse: %+v", titles[0])
	}
	if titles[1].MediaType != "tv" {
		t.Errorf("expected tv media type inferred, got %+v", titles[1])
	}
}
