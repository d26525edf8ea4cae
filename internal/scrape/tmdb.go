package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/rs/zerolog/log"
)

const maxPageBytes = 4 << 20

// TMDBClient scrapes title pages from themoviedb.org.
type TMDBClient struct {
	baseURL    string
	userAgent  string
	language   string
	httpClient *http.Client
	catalog    map[string]config.TitleConfig
	robots     *RobotsChecker
	limiter    *Limiter
	cache      *EvidenceCache
}

// NewTMDBClient creates a scraper from the scraper and catalog configuration.
func NewTMDBClient(cfg *config.Config) *TMDBClient {
	sc := cfg.Scraper
	c := &TMDBClient{
		baseURL:    strings.TrimRight(sc.BaseURL, "/"),
		userAgent:  sc.UserAgent,
		language:   sc.Language,
		httpClient: &http.Client{Timeout: sc.Timeout},
		catalog:    make(map[string]config.TitleConfig, len(cfg.Catalog)),
		limiter:    NewLimiter(sc.RequestsPerSecond, sc.Burst),
		cache:      NewEvidenceCache(sc.CacheTTL),
	}
	for title, entry := range cfg.Catalog {
		c.catalog[normalizeTitle(title)] = entry
	}
	if sc.RespectRobots {
		c.robots = NewRobotsChecker(sc.UserAgent, sc.Timeout)
	}
	return c
}

// Name returns the source name.
func (c *TMDBClient) Name() string {
	return "tmdb"
}

// Fetch resolves ref to a TMDB page and scrapes it.
func (c *TMDBClient) Fetch(ctx context.Context, ref models.TitleRef) (*models.EvidenceRecord, error) {
	resolved, err := c.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tmdb:v1:%s/%d/%s", resolved.MediaType, resolved.TMDBID, c.language)
	if ev, ok := c.cache.Get(key); ok {
		log.Debug().Str("key", key).Msg("Evidence cache hit")
		return ev, nil
	}

	pageURL := fmt.Sprintf("%s/%s/%d", c.baseURL, resolved.MediaType, resolved.TMDBID)
	body, err := c.get(ctx, c.withLanguage(pageURL))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	ev, err := ParseTitlePage(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	ev.Source = c.Name()
	ev.URL = pageURL
	if ev.Title == "" {
		ev.Title = resolved.Title
	}

	log.Info().
		Str("title", ev.Title).
		Str("url", pageURL).
		Int("cast", len(ev.Cast)).
		Msg("Scraped TMDB page")

	c.cache.Set(key, ev)
	return ev, nil
}

// Resolve fills in the TMDB id and media type for ref. A ref that already
// carries both is returned as is; otherwise the catalog is consulted before
// the TMDB search page.
func (c *TMDBClient) Resolve(ctx context.Context, ref models.TitleRef) (models.TitleRef, error) {
	if ref.TMDBID > 0 && (ref.MediaType == models.MediaMovie || ref.MediaType == models.MediaTV) {
		return ref, nil
	}

	title := strings.TrimSpace(ref.Title)
	if title == "" {
		return ref, ErrNotFound
	}
	if entry, ok := c.catalog[normalizeTitle(title)]; ok {
		return models.TitleRef{Title: title, TMDBID: entry.ID, MediaType: models.MediaType(entry.Type)}, nil
	}

	searchURL := c.baseURL + "/search?query=" + url.QueryEscape(title)
	body, err := c.get(ctx, c.withLanguage(searchURL))
	if err != nil {
		return ref, fmt.Errorf("search %q: %w", title, err)
	}
	found, ok, err := ParseSearchResults(bytes.NewReader(body))
	if err != nil {
		return ref, err
	}
	if !ok {
		return ref, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	if found.Title == "" {
		found.Title = title
	}
	log.Debug().
		Str("query", title).
		Str("media_type", string(found.MediaType)).
		Int("tmdb_id", found.TMDBID).
		Msg("Resolved title via search")
	return found, nil
}

func (c *TMDBClient) withLanguage(rawURL string) string {
	if c.language == "" {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "language=" + url.QueryEscape(c.language)
}

// get performs a polite GET: robots.txt first, then the per-host limiter.
func (c *TMDBClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	delay := c.crawlDelay(ctx, rawURL)
	if delay < 0 {
		return nil, ErrDisallowed
	}
	if err := c.limiter.Wait(ctx, rawURL, delay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// crawlDelay returns the crawl delay for rawURL, or -1 when robots.txt
// disallows it.
func (c *TMDBClient) crawlDelay(ctx context.Context, rawURL string) time.Duration {
	if c.robots == nil {
		return 0
	}
	allowed, delay, err := c.robots.CanFetch(ctx, rawURL)
	if err != nil || !allowed {
		log.Warn().Str("url", rawURL).Msg("Fetch disallowed by robots.txt")
		return -1
	}
	return delay
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

var _ Provider = (*TMDBClient)(nil)
