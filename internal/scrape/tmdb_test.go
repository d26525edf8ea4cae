package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tmdbServer struct {
	*httptest.Server
	pageHits   atomic.Int32
	searchHits atomic.Int32
	language   atomic.Value
}

func newTMDBServer(t *testing.T, robots string) *tmdbServer {
	t.Helper()
	s := &tmdbServer{}
	serveFile := func(w http.ResponseWriter, name string) {
		data, err := os.ReadFile("testdata/" + name)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if robots == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(robots))
	})
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		s.pageHits.Add(1)
		s.language.Store(r.URL.Query().Get("language"))
		serveFile(w, "tv_1396.html")
	})
	mux.HandleFunc("/movie/281957", func(w http.ResponseWriter, r *http.Request) {
		s.pageHits.Add(1)
		serveFile(w, "movie_281957.html")
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		s.searchHits.Add(1)
		if r.URL.Query().Get("query") == "The Revenant" {
			serveFile(w, "search.html")
			return
		}
		serveFile(w, "search_empty.html")
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func testConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scraper.BaseURL = baseURL
	cfg.Scraper.RequestsPerSecond = 0
	cfg.Scraper.Timeout = 5 * time.Second
	return cfg
}

func TestTMDBClient_FetchCatalogTitle(t *testing.T) {
	srv := newTMDBServer(t, "")
	client := NewTMDBClient(testConfig(srv.URL))

	ev, err := client.Fetch(context.Background(), models.TitleRef{Title: "Breaking  Bad"})
	require.NoError(t, err)

	assert.Equal(t, "tmdb", ev.Source)
	assert.Equal(t, srv.URL+"/tv/1396", ev.URL)
	assert.Equal(t, "Breaking Bad", ev.Title)
	assert.Equal(t, "Vince Gilligan", ev.DirectorOrCreator())
	assert.Equal(t, "en-US", srv.language.Load())
	assert.Equal(t, int32(0), srv.searchHits.Load(), "catalog titles skip search")
}

func TestTMDBClient_FetchUsesCache(t *testing.T) {
	srv := newTMDBServer(t, "")
	client := NewTMDBClient(testConfig(srv.URL))
	ref := models.TitleRef{Title: "Breaking Bad", TMDBID: 1396, MediaType: models.MediaTV}

	first, err := client.Fetch(context.Background(), ref)
	require.NoError(t, err)
	first.Title = "mutated"

	second, err := client.Fetch(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "Breaking Bad", second.Title, "cached copies are independent")
	assert.Equal(t, int32(1), srv.pageHits.Load())
}

func TestTMDBClient_FetchViaSearch(t *testing.T) {
	srv := newTMDBServer(t, "")
	client := NewTMDBClient(testConfig(srv.URL))

	ev, err := client.Fetch(context.Background(), models.TitleRef{Title: "The Revenant"})
	require.NoError(t, err)

	assert.Equal(t, "The Revenant", ev.Title)
	assert.Equal(t, "2015", ev.Year)
	assert.Equal(t, int32(1), srv.searchHits.Load())
}

func TestTMDBClient_NotFound(t *testing.T) {
	srv := newTMDBServer(t, "")
	client := NewTMDBClient(testConfig(srv.URL))

	_, err := client.Fetch(context.Background(), models.TitleRef{Title: "Nonexistent Picture"})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = client.Fetch(context.Background(), models.TitleRef{})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = client.Fetch(context.Background(), models.TitleRef{TMDBID: 42, MediaType: models.MediaMovie})
	assert.True(t, errors.Is(err, ErrNotFound), "404 pages map to ErrNotFound")
}

func TestTMDBClient_RespectsRobots(t *testing.T) {
	srv := newTMDBServer(t, "User-agent: *\nDisallow: /tv/\n")
	client := NewTMDBClient(testConfig(srv.URL))

	_, err := client.Fetch(context.Background(), models.TitleRef{Title: "Breaking Bad"})
	assert.True(t, errors.Is(err, ErrDisallowed))
	assert.Equal(t, int32(0), srv.pageHits.Load())

	cfg := testConfig(srv.URL)
	cfg.Scraper.RespectRobots = false
	_, err = NewTMDBClient(cfg).Fetch(context.Background(), models.TitleRef{Title: "Breaking Bad"})
	assert.NoError(t, err)
}

func TestTMDBClient_ContextCanceled(t *testing.T) {
	srv := newTMDBServer(t, "")
	client := NewTMDBClient(testConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Fetch(ctx, models.TitleRef{Title: "Breaking Bad"})
	assert.Error(t, err)
}

func TestLimiter_CrawlDelay(t *testing.T) {
	l := NewLimiter(0, 1)
	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), "http://example.com/a", 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx, "http://example.com/a", time.Second))
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	r := NewRobotsChecker("cinecheck/1.0", time.Second)
	allowed, _, err := r.CanFetch(context.Background(), "http://127.0.0.1:1/tv/1")
	require.NoError(t, err)
	assert.True(t, allowed)
}
