package verify

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
)

// Comparator checks a claim of one category against an evidence record.
// Implementations fill IsTrue, Evidence and Confidence; the engine sets the rest.
type Comparator interface {
	Compare(claim string, evidence *models.EvidenceRecord) models.Verdict
}

func verdict(truth models.Truth, confidence models.Confidence, format string, args ...any) models.Verdict {
	return models.Verdict{
		IsTrue:     truth,
		Confidence: confidence,
		Evidence:   fmt.Sprintf(format, args...),
	}
}

func titleOf(ev *models.EvidenceRecord) string {
	if ev.Title != "" {
		return ev.Title
	}
	return "this title"
}

// DirectorComparator matches a director named in the claim against the
// director (or series creator) on record.
type DirectorComparator struct {
	names    nameFinder
	fallback Comparator
}

func (c *DirectorComparator) Compare(claim string, ev *models.EvidenceRecord) models.Verdict {
	onRecord := strings.TrimSpace(ev.DirectorOrCreator())
	if onRecord == "" {
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"No director is on record for %s, so the claim cannot be checked.", titleOf(ev))
	}

	candidates := c.names.candidates(claim, ev.Title)
	if len(candidates) == 0 {
		return c.fallback.Compare(claim, ev)
	}

	lowerRecord := strings.ToLower(onRecord)
	for _, candidate := range candidates {
		for _, name := range nameVariants(candidate) {
			if strings.Contains(lowerRecord, strings.ToLower(name)) {
				return verdict(models.TruthTrue, models.ConfidenceHigh,
					"%s is confirmed as the director of %s.", name, titleOf(ev))
			}
		}
	}
	return verdict(models.TruthFalse, models.ConfidenceHigh,
		"%s is not the director of %s. The director on record is %s.", candidates[0], titleOf(ev), onRecord)
}

// YearComparator compares the first year in the claim with the release year.
type YearComparator struct{}

func (YearComparator) Compare(claim string, ev *models.EvidenceRecord) models.Verdict {
	if strings.TrimSpace(ev.Year) == "" {
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"No release year is on record for %s.", titleOf(ev))
	}
	recordYear := firstYear(ev.Year)
	if recordYear == "" {
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"The release year on record for %s (%q) is not a valid year.", titleOf(ev), ev.Year)
	}
	claimYear := firstYear(claim)
	if claimYear == "" {
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"The claim does not mention a year to compare with %s.", recordYear)
	}
	if claimYear == recordYear {
		return verdict(models.TruthTrue, models.ConfidenceHigh,
			"The release year of %s is %s.", titleOf(ev), recordYear)
	}
	return verdict(models.TruthFalse, models.ConfidenceHigh,
		"The release year of %s is not %s; it is %s.", titleOf(ev), claimYear, recordYear)
}

// CastComparator checks whether an actor named in the claim is in the billed cast.
type CastComparator struct {
	names    nameFinder
	fallback Comparator
}

func (c *CastComparator) Compare(claim string, ev *models.EvidenceRecord) models.Verdict {
	actors := ev.ActorNames()
	candidates := c.names.candidates(claim, ev.Title)
	if len(actors) == 0 || len(candidates) == 0 {
		return c.fallback.Compare(claim, ev)
	}

	for _, candidate := range candidates {
		for _, name := range nameVariants(candidate) {
			if member, ok := findActor(ev.Cast, name); ok {
				if member.Character != "" {
					return verdict(models.TruthTrue, models.ConfidenceHigh,
						"%s is in the cast of %s as %s.", member.Actor, titleOf(ev), member.Character)
				}
				return verdict(models.TruthTrue, models.ConfidenceHigh,
					"%s is in the cast of %s.", member.Actor, titleOf(ev))
			}
		}
	}

	top := actors
	if len(top) > 5 {
		top = top[:5]
	}
	return verdict(models.TruthFalse, models.ConfidenceHigh,
		"%s does not appear in the cast of %s. Top-billed: %s.", candidates[0], titleOf(ev), strings.Join(top, ", "))
}

func findActor(cast []models.CastMember, name string) (models.CastMember, bool) {
	lowerName := strings.ToLower(name)
	for _, member := range cast {
		if member.Actor != "" && strings.Contains(strings.ToLower(member.Actor), lowerName) {
			return member, true
		}
	}
	return models.CastMember{}, false
}

// AwardComparator looks the title up in a curated award table. Awards text
// carried on the record itself takes precedence over the table. A win
// credited to a person the award text never mentions stays unknown.
type AwardComparator struct {
	titles []string // lower-cased, longest first
	awards map[string]string
	won    phraseSet
	people nameFinder
}

func newAwardComparator(rules config.RulesConfig) *AwardComparator {
	known := append(append([]string(nil), rules.KnownActors...), rules.KnownDirectors...)
	c := &AwardComparator{
		awards: make(map[string]string, len(rules.Awards)),
		won:    newPhraseSet(rules.WonVerbs),
		people: ruleNameFinder(known, rules),
	}
	for title, summary := range rules.Awards {
		key := strings.ToLower(strings.TrimSpace(title))
		if key == "" {
			continue
		}
		c.awards[key] = summary
		c.titles = append(c.titles, key)
	}
	sort.Slice(c.titles, func(i, j int) bool {
		if len(c.titles[i]) != len(c.titles[j]) {
			return len(c.titles[i]) > len(c.titles[j])
		}
		return c.titles[i] < c.titles[j]
	})
	return c
}

func (c *AwardComparator) Compare(claim string, ev *models.EvidenceRecord) models.Verdict {
	if strings.TrimSpace(ev.Title) == "" {
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"The evidence has no title, so award records cannot be looked up.")
	}

	summary := strings.TrimSpace(ev.Awards)
	if summary == "" {
		lowerTitle := strings.ToLower(ev.Title)
		for _, key := range c.titles {
			if strings.Contains(lowerTitle, key) {
				summary = c.awards[key]
				break
			}
		}
	}
	if summary == "" {
		return verdict(models.TruthUnknown, models.ConfidenceMedium,
			"No award records are on file for %s, so the award claim cannot be confirmed.", ev.Title)
	}

	if c.won.matchAny(words(claim)) {
		if person, ok := c.unmentionedPerson(claim, ev.Title, summary); ok {
			return verdict(models.TruthUnknown, models.ConfidenceMedium,
				"The award records for %s (%s) do not mention %s.", ev.Title, strings.TrimSuffix(summary, "."), person)
		}
		return verdict(models.TruthTrue, models.ConfidenceMedium,
			"Awards on record for %s: %s.", ev.Title, strings.TrimSuffix(summary, "."))
	}
	return verdict(models.TruthUnknown, models.ConfidenceMedium,
		"%s has awards on record (%s), but the specific assertion cannot be checked directly.",
		ev.Title, strings.TrimSuffix(summary, "."))
}

// unmentionedPerson returns the first person named in the claim when none of
// the people named appear in the award summary. Single capitalized words are
// not treated as people.
func (c *AwardComparator) unmentionedPerson(claim, title, summary string) (string, bool) {
	lowerSummary := strings.ToLower(summary)
	var people []string
	for _, candidate := range c.people.candidates(claim, title) {
		if !strings.Contains(candidate, " ") {
			continue
		}
		for _, name := range nameVariants(candidate) {
			if strings.Contains(lowerSummary, strings.ToLower(name)) {
				return "", false
			}
		}
		people = append(people, candidate)
	}
	if len(people) == 0 {
		return "", false
	}
	return people[0], true
}

// GenericComparator scores how many of the claim's significant words occur
// in the flattened evidence.
type GenericComparator struct {
	minLen     int
	support    float64
	contradict float64
}

// Overlap returns the matched and total counts of significant claim words.
func (c *GenericComparator) Overlap(claim string, ev *models.EvidenceRecord) (matches, total int) {
	flat := ev.Flatten()
	for _, w := range words(claim) {
		if utf8.RuneCountInString(w) < c.minLen {
			continue
		}
		total++
		if flat != "" && strings.Contains(flat, w) {
			matches++
		}
	}
	return matches, total
}

func (c *GenericComparator) Compare(claim string, ev *models.EvidenceRecord) models.Verdict {
	if ev.Flatten() == "" {
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"The evidence record has no content to compare against.")
	}
	matches, total := c.Overlap(claim, ev)
	if total == 0 {
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"The claim has no significant terms to compare against the evidence.")
	}

	ratio := float64(matches) / float64(total)
	switch {
	case ratio >= c.support:
		return verdict(models.TruthTrue, models.ConfidenceMedium,
			"The information found matches the claim (%d of %d key terms).", matches, total)
	case ratio <= c.contradict:
		return verdict(models.TruthFalse, models.ConfidenceMedium,
			"The information found does not support the claim (%d of %d key terms).", matches, total)
	default:
		return verdict(models.TruthUnknown, models.ConfidenceLow,
			"The information found only partially matches the claim (%d of %d key terms).", matches, total)
	}
}
