package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/factchecker/cinecheck/internal/models"
	"golang.org/x/net/html"
)

var (
	titleSel       = mustSelector("section.header.poster h2 a")
	releaseDateSel = mustSelector("span.tag.release_date")
	releaseSel     = mustSelector("span.release")
	overviewSel    = mustSelector("div.overview p")
	genreSel       = mustSelector("span.genres a")
	scoreSel       = mustSelector(".user_score_chart[data-percent]")
	crewSel        = mustSelector("ol.people li.profile")
	roleSel        = mustSelector("p.character")
	personSel      = mustSelector("a")
	castCardSel    = mustSelector("section.panel.top_billed li.card")
	actorSel       = mustSelector("p a")
	resultLinkSel  = mustSelector("a[href]")

	yearPattern      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	titleLinkPattern = regexp.MustCompile(`^/(movie|tv)/(\d+)`)
)

// ParseTitlePage extracts the facts from a TMDB movie or TV page. Missing
// sections leave the corresponding fields empty.
func ParseTitlePage(r io.Reader) (*models.EvidenceRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse title page: %w", err)
	}

	ev := &models.EvidenceRecord{
		Title:    textOf(titleSel.first(doc)),
		Overview: textOf(overviewSel.first(doc)),
		Year:     parseYear(doc),
	}

	for _, n := range genreSel.all(doc) {
		if g := textOf(n); g != "" {
			ev.Genres = append(ev.Genres, g)
		}
	}

	if n := scoreSel.first(doc); n != nil {
		score, _ := attrValue(n, "data-percent")
		ev.Score = normalizeScore(score)
	}

	var directors []string
	for _, li := range crewSel.all(doc) {
		name := textOf(personSel.first(li))
		if name == "" {
			continue
		}
		role := textOf(roleSel.first(li))
		switch {
		case strings.Contains(role, "Director"):
			directors = append(directors, name)
		case ev.Creator == "" && (strings.Contains(role, "Creator") || strings.Contains(role, "Creador")):
			ev.Creator = name
		}
	}
	ev.Director = strings.Join(directors, ", ")

	for _, card := range castCardSel.all(doc) {
		actor := textOf(actorSel.first(card))
		if actor == "" {
			continue
		}
		ev.Cast = append(ev.Cast, models.CastMember{
			Actor:     actor,
			Character: textOf(roleSel.first(card)),
		})
	}

	return ev, nil
}

func parseYear(doc *html.Node) string {
	if y := strings.Trim(textOf(releaseDateSel.first(doc)), "() "); y != "" {
		return y
	}
	return yearPattern.FindString(textOf(releaseSel.first(doc)))
}

// normalizeScore drops a trailing ".0" so "87.0" reads as "87".
func normalizeScore(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return strconv.Itoa(int(f))
	}
	return s
}

// ParseSearchResults returns the first movie or TV result linked from a
// TMDB search page, or false when there is none.
func ParseSearchResults(r io.Reader) (models.TitleRef, bool, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return models.TitleRef{}, false, fmt.Errorf("parse search page: %w", err)
	}
	for _, a := range resultLinkSel.all(doc) {
		href, _ := attrValue(a, "href")
		m := titleLinkPattern.FindStringSubmatch(href)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[2])
		if err != nil || id <= 0 {
			continue
		}
		return models.TitleRef{
			Title:     textOf(a),
			TMDBID:    id,
			MediaType: models.MediaType(m[1]),
		}, true, nil
	}
	return models.TitleRef{}, false, nil
}
