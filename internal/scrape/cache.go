package scrape

import (
	"encoding/json"
	"time"

	"github.com/factchecker/cinecheck/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

// EvidenceCache keeps scraped records for a while so repeated questions
// about the same title do not hit TMDB again. Records are stored encoded,
// so callers always get their own copy.
type EvidenceCache struct {
	cache *gocache.Cache
}

// NewEvidenceCache creates a cache whose entries expire after ttl. A
// non-positive ttl returns nil, which disables caching.
func NewEvidenceCache(ttl time.Duration) *EvidenceCache {
	if ttl <= 0 {
		return nil
	}
	return &EvidenceCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached record for key.
func (c *EvidenceCache) Get(key string) (*models.EvidenceRecord, bool) {
	if c == nil {
		return nil, false
	}
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	var ev models.EvidenceRecord
	if err := json.Unmarshal(val.([]byte), &ev); err != nil {
		c.cache.Delete(key)
		return nil, false
	}
	return &ev, true
}

// Set stores ev under key with the default TTL.
func (c *EvidenceCache) Set(key string, ev *models.EvidenceRecord) {
	if c == nil || ev == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	c.cache.SetDefault(key, data)
}

// Len returns the number of cached records, including expired ones not yet evicted.
func (c *EvidenceCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}
