package config

import (
	"fmt"
)

// RulesConfig holds the keyword tables and thresholds used by the fact checker.
type RulesConfig struct {
	// ClaimPrefixes are boilerplate phrases stripped from a query to get the claim.
	ClaimPrefixes []string `yaml:"claim_prefixes"`

	AwardKeywords    []string `yaml:"award_keywords"`
	DirectorKeywords []string `yaml:"director_keywords"`
	CastKeywords     []string `yaml:"cast_keywords"`

	// WonVerbs mark an award claim as asserting a win.
	WonVerbs []string `yaml:"won_verbs"`

	KnownDirectors []string `yaml:"known_directors"`
	KnownActors    []string `yaml:"known_actors"`

	// Awards maps a lower-cased title to a summary of the awards it won.
	Awards map[string]string `yaml:"awards"`

	// NameStopwords are capitalized words that never start or end a person's name.
	NameStopwords []string `yaml:"name_stopwords"`

	// NameLeadingWords are dropped when they open a run of capitalized words,
	// so "Has Zendaya" reads as "Zendaya". Keyword list entries count too.
	NameLeadingWords []string `yaml:"name_leading_words"`

	ImportantWordMinLen int     `yaml:"important_word_min_len"`
	GenericSupport      float64 `yaml:"generic_support"`
	GenericContradict   float64 `yaml:"generic_contradict"`

	DigestCastSize     int `yaml:"digest_cast_size"`
	DigestSummaryRunes int `yaml:"digest_summary_runes"`
}

// DefaultRules returns the built-in English and Spanish rule set.
func DefaultRules() RulesConfig {
	return RulesConfig{
		ClaimPrefixes: []string{
			"is it true that", "is it true", "verify whether", "verify if", "verify that",
			"confirm whether", "confirm if", "confirm that", "fact-check", "fact check",
			"check if", "check whether",
			"es cierto que", "es verdad que", "verifica si", "confirmar si", "confirma si",
			"fact check de",
		},
		AwardKeywords: []string{
			"oscar", "oscars", "award", "awards", "prize", "won", "emmy", "emmys", "golden globe",
			"premio", "premios", "premió", "ganó", "gano",
		},
		DirectorKeywords: []string{
			"director", "directed", "directs", "dirigió", "dirigio", "dirigida", "dirigido",
		},
		CastKeywords: []string{
			"actor", "actress", "actors", "cast", "starring", "stars", "starred", "plays", "played",
			"acted", "acts", "appears", "appeared", "role",
			"actriz", "reparto", "elenco", "protagoniza", "protagonizó", "actuó", "interpreta",
		},
		WonVerbs: []string{"won", "wins", "win", "ganó", "gano", "ganaron"},
		KnownDirectors: []string{
			"christopher nolan", "james cameron", "steven spielberg", "quentin tarantino",
			"vince gilligan", "peter jackson", "robert zemeckis", "martin scorsese",
		},
		KnownActors: []string{
			"bryan cranston", "aaron paul", "bob odenkirk", "leonardo dicaprio",
		},
		Awards: map[string]string{
			"the revenant":          "Leonardo DiCaprio won Best Actor (2016)",
			"titanic":               "11 Oscars including Best Picture (1997)",
			"the lord of the rings": "11 Oscars including Best Picture (2003)",
			"forrest gump":          "6 Oscars including Best Picture (1994)",
		},
		NameStopwords: []string{
			"is", "it", "was", "did", "does", "do", "the", "a", "an", "in", "of", "for", "and",
			"true", "that", "this", "who", "what", "when", "which", "verify", "confirm", "check",
			"oscar", "oscars", "emmy", "award", "best", "actor", "director",
			"es", "el", "la", "los", "las", "en", "de", "del", "que", "verifica", "premio",
		},
		NameLeadingWords: []string{
			"has", "have", "had", "were", "are", "am", "can", "could", "would", "should",
			"shall", "must", "did", "does", "do", "is", "was", "didn't", "doesn't", "wasn't",
			"isn't", "hasn't", "haven't", "tell", "name", "list", "show", "who", "what",
			"when", "which", "where", "how", "why", "yes", "no",
			"ha", "han", "fue", "fueron", "era", "son", "está", "estuvo", "trabajó",
			"participó", "sale", "salió", "aparece", "apareció", "dime", "nombra", "quién",
			"qué", "cuándo", "dónde", "cómo", "sí",
		},
		ImportantWordMinLen: 4,
		GenericSupport:      0.6,
		GenericContradict:   0.3,
		DigestCastSize:      5,
		DigestSummaryRunes:  500,
	}
}

// Validate checks that the rule set is usable.
func (r RulesConfig) Validate() error {
	if r.GenericContradict < 0 || r.GenericSupport > 1 {
		return fmt.Errorf("generic thresholds must lie within [0, 1]")
	}
	if r.GenericContradict >= r.GenericSupport {
		return fmt.Errorf("generic_contradict (%.2f) must be below generic_support (%.2f)",
			r.GenericContradict, r.GenericSupport)
	}
	if r.ImportantWordMinLen < 1 {
		return fmt.Errorf("important_word_min_len must be at least 1")
	}
	if len(r.AwardKeywords) == 0 || len(r.DirectorKeywords) == 0 || len(r.CastKeywords) == 0 {
		return fmt.Errorf("award, director and cast keyword lists must not be empty")
	}
	return nil
}
