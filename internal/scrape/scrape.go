// Package scrape fetches film and series facts from TMDB pages.
package scrape

import (
	"context"
	"errors"

	"github.com/factchecker/cinecheck/internal/models"
)

var (
	// ErrNotFound is returned when a title cannot be resolved to a TMDB page.
	ErrNotFound = errors.New("title not found")
	// ErrDisallowed is returned when robots.txt forbids fetching a page.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// Provider supplies an evidence record for a title.
type Provider interface {
	// Fetch resolves ref and returns the facts scraped for it.
	Fetch(ctx context.Context, ref models.TitleRef) (*models.EvidenceRecord, error)

	// Name returns the source name recorded on evidence.
	Name() string
}
