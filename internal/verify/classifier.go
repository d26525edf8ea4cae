package verify

import (
	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
)

// CategoryClassifier routes a claim to the comparator that checks it.
type CategoryClassifier struct {
	award    phraseSet
	director phraseSet
	cast     phraseSet
}

// NewCategoryClassifier builds a classifier from the configured keyword lists.
func NewCategoryClassifier(rules config.RulesConfig) *CategoryClassifier {
	return &CategoryClassifier{
		award:    newPhraseSet(rules.AwardKeywords),
		director: newPhraseSet(rules.DirectorKeywords),
		cast:     newPhraseSet(rules.CastKeywords),
	}
}

// Classify returns the first matching category in priority order:
// award, director, cast, year, then generic. Award and person keywords are
// checked before the year so "won an Oscar in 2016" is an award claim.
func (c *CategoryClassifier) Classify(claim string) models.Category {
	tokens := words(claim)
	switch {
	case c.award.matchAny(tokens):
		return models.CategoryAward
	case c.director.matchAny(tokens):
		return models.CategoryDirector
	case c.cast.matchAny(tokens):
		return models.CategoryCast
	case firstYear(claim) != "":
		return models.CategoryYear
	default:
		return models.CategoryGeneric
	}
}
