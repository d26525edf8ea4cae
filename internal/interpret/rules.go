// Package interpret works out what a user is asking: the intent, the title
// it concerns and, for fact checks, the claim to verify.
package interpret

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
)

// intentKeywords lists trigger phrases per intent, English and Spanish.
var intentKeywords = map[models.Intent][]string{
	models.IntentFactCheck: {
		"verify", "verifica", "verificar", "is it true", "is that true", "true that",
		"es cierto", "es verdad", "confirm", "confirma", "confirmar", "chequea",
		"fact check", "fact-check", "check whether", "check if",
	},
	models.IntentReport: {
		"report", "reporte", "informe", "resumen", "summary", "summarize", "summarise",
	},
	models.IntentAnalysis: {
		"analyze", "analyse", "analysis", "analiza", "analizar", "análisis", "review", "reseña",
	},
	models.IntentSearch: {
		"search", "find", "look up", "busca", "buscar", "info", "information", "información",
		"datos", "details", "detalles", "about", "sobre", "tell me", "cast", "reparto",
		"elenco", "actores", "who", "quién", "quien", "when", "cuándo",
	},
}

// intentOrder is the priority in which intents are tested.
var intentOrder = []models.Intent{
	models.IntentFactCheck,
	models.IntentReport,
	models.IntentAnalysis,
	models.IntentSearch,
}

var (
	quotedTitle      = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|«([^»]+)»`)
	afterPreposition = regexp.MustCompile(`\b(?:of|about|in|on|for|from|de|del|sobre|en)\s+(\p{Lu}[\p{L}\p{N}'’:&-]*(?:\s+(?:\p{Lu}[\p{L}\p{N}'’:&-]*|\p{N}+|of|the|and|de|la|el|los|las|y))*)`)
	connectors       = map[string]bool{"of": true, "the": true, "and": true, "de": true, "la": true, "el": true, "los": true, "las": true, "y": true}
)

type knownTitle struct {
	key   string // normalized
	title string
	id    int
	media models.MediaType
}

// ruleReader is the keyword-based interpreter. It needs no network access.
type ruleReader struct {
	titles []knownTitle // longest key first
	people []string     // normalized, longest first
}

func newRuleReader(cfg *config.Config) *ruleReader {
	r := &ruleReader{}
	seen := make(map[string]bool)
	for title, entry := range cfg.Catalog {
		key := normalize(title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		r.titles = append(r.titles, knownTitle{key: key, title: titleCase(key), id: entry.ID, media: models.MediaType(entry.Type)})
	}
	for title := range cfg.Rules.Awards {
		key := normalize(title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		r.titles = append(r.titles, knownTitle{key: key, title: titleCase(key)})
	}
	sort.Slice(r.titles, func(i, j int) bool {
		if len(r.titles[i].key) != len(r.titles[j].key) {
			return len(r.titles[i].key) > len(r.titles[j].key)
		}
		return r.titles[i].key < r.titles[j].key
	})

	for _, name := range append(append([]string(nil), cfg.Rules.KnownDirectors...), cfg.Rules.KnownActors...) {
		if key := normalize(name); key != "" {
			r.people = append(r.people, key)
		}
	}
	sort.SliceStable(r.people, func(i, j int) bool { return len(r.people[i]) > len(r.people[j]) })
	return r
}

// read interprets query using keywords only.
func (r *ruleReader) read(query string) models.Interpretation {
	padded := " " + normalize(query) + " "
	intent := detectIntent(padded)
	target := r.findTitle(query, padded)

	interp := models.Interpretation{
		Intent:         intent,
		Target:         target,
		Person:         r.findPerson(padded),
		Claim:          strings.TrimSpace(query),
		NeedsWeb:       intent != models.IntentUnknown || target.Title != "",
		NeedsFactCheck: intent == models.IntentFactCheck,
	}
	interp.Task, interp.Purpose = describe(interp)
	return interp
}

func detectIntent(padded string) models.Intent {
	for _, intent := range intentOrder {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(padded, " "+normalize(kw)+" ") {
				return intent
			}
		}
	}
	return models.IntentUnknown
}

// findTitle tries, in order, the known titles, a quoted title and a
// capitalized run after a preposition.
func (r *ruleReader) findTitle(query, padded string) models.TitleRef {
	for _, t := range r.titles {
		if strings.Contains(padded, " "+t.key+" ") {
			return models.TitleRef{Title: t.title, TMDBID: t.id, MediaType: t.media}
		}
	}
	if m := quotedTitle.FindStringSubmatch(query); m != nil {
		for _, g := range m[1:] {
			if g = strings.TrimSpace(g); g != "" {
				return r.lookup(g)
			}
		}
	}
	for _, m := range afterPreposition.FindAllStringSubmatch(query, -1) {
		if run := trimConnectors(m[1]); run != "" {
			return r.lookup(run)
		}
	}
	return models.TitleRef{}
}

// lookup attaches catalog data to a free-text title when it names a known one.
func (r *ruleReader) lookup(title string) models.TitleRef {
	key := normalize(title)
	for _, t := range r.titles {
		if t.key == key {
			return models.TitleRef{Title: t.title, TMDBID: t.id, MediaType: t.media}
		}
	}
	return models.TitleRef{Title: strings.TrimSpace(title)}
}

func (r *ruleReader) findPerson(padded string) string {
	for _, p := range r.people {
		if strings.Contains(padded, " "+p+" ") {
			return titleCase(p)
		}
	}
	return ""
}

func describe(interp models.Interpretation) (task, purpose string) {
	subject := interp.Target.Title
	if subject == "" {
		subject = "the requested title"
	}
	switch interp.Intent {
	case models.IntentFactCheck:
		return "verify claim", "Check whether a statement about " + subject + " is true"
	case models.IntentReport:
		return "write report", "Produce a report on " + subject
	case models.IntentAnalysis:
		return "analyze title", "Analyze " + subject
	case models.IntentSearch:
		return "search information", "Find information about " + subject
	default:
		return "", ""
	}
}

func trimConnectors(run string) string {
	fields := strings.Fields(strings.TrimRight(run, ".,;:!?"))
	for len(fields) > 0 && connectors[strings.ToLower(fields[len(fields)-1])] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// normalize lower-cases s, turns punctuation into spaces and collapses runs
// of whitespace. Apostrophes and hyphens are kept.
func normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\'' && r != '-'
	}), " ")
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		r, size := utf8.DecodeRuneInString(f)
		fields[i] = string(unicode.ToUpper(r)) + f[size:]
	}
	return strings.Join(fields, " ")
}
