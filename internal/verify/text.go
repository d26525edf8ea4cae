package verify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/factchecker/cinecheck/internal/config"
)

var yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// words lower-cases s and splits it into letter/digit tokens. Apostrophes
// and hyphens stay inside a token.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\'' && r != '-'
	})
}

// phraseSet is a list of keyword phrases, each pre-split into tokens.
type phraseSet [][]string

func newPhraseSet(phrases []string) phraseSet {
	set := make(phraseSet, 0, len(phrases))
	for _, p := range phrases {
		if toks := words(p); len(toks) > 0 {
			set = append(set, toks)
		}
	}
	return set
}

// matchAny reports whether any phrase occurs as a whole-word sequence in tokens.
func (ps phraseSet) matchAny(tokens []string) bool {
	for _, phrase := range ps {
		if containsSeq(tokens, phrase) {
			return true
		}
	}
	return false
}

func containsSeq(tokens, seq []string) bool {
	if len(seq) == 0 || len(seq) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(seq) <= len(tokens); i++ {
		for j := range seq {
			if tokens[i+j] != seq[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

// firstYear returns the first 1900-2099 year token in s, or "".
func firstYear(s string) string {
	if m := yearPattern.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

// titleCase capitalizes the first letter of every word.
func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		r, size := utf8.DecodeRuneInString(f)
		fields[i] = string(unicode.ToUpper(r)) + f[size:]
	}
	return strings.Join(fields, " ")
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// nameFinder pulls candidate person names out of a claim.
type nameFinder struct {
	known     []string
	stopwords map[string]bool
	leading   map[string]bool // skipped only at the start of a run
}

// ruleNameFinder builds a nameFinder over known from the rule set. Category
// keywords are treated as leading words, so the verb in "Dirigió Denis
// Villeneuve la película" never joins the name.
func ruleNameFinder(known []string, rules config.RulesConfig) nameFinder {
	leading := append([]string(nil), rules.NameLeadingWords...)
	for _, list := range [][]string{rules.DirectorKeywords, rules.CastKeywords, rules.AwardKeywords} {
		for _, kw := range list {
			leading = append(leading, words(kw)...)
		}
	}
	return newNameFinder(known, rules.NameStopwords, leading)
}

func newNameFinder(known, stopwords, leading []string) nameFinder {
	nf := nameFinder{
		stopwords: make(map[string]bool, len(stopwords)),
		leading:   make(map[string]bool, len(leading)),
	}
	for _, k := range known {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			nf.known = append(nf.known, k)
		}
	}
	// Longer names first so "james cameron" wins over a bare "cameron".
	sort.SliceStable(nf.known, func(i, j int) bool { return len(nf.known[i]) > len(nf.known[j]) })
	for _, w := range stopwords {
		nf.stopwords[strings.ToLower(w)] = true
	}
	for _, w := range leading {
		nf.leading[strings.ToLower(w)] = true
	}
	return nf
}

// candidates returns the names mentioned in the claim, best first: names from
// the known list, then runs of capitalized words. Runs that are part of the
// evidence title are skipped.
func (nf nameFinder) candidates(claim, title string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}

	tokens := words(claim)
	for _, k := range nf.known {
		if containsSeq(tokens, words(k)) {
			add(titleCase(k))
		}
	}

	lowerTitle := strings.ToLower(title)
	var multi, single []string
	for _, run := range nf.capitalizedRuns(claim) {
		if lowerTitle != "" && strings.Contains(lowerTitle, strings.ToLower(run)) {
			continue
		}
		if strings.Contains(run, " ") {
			multi = append(multi, run)
		} else {
			single = append(single, run)
		}
	}
	for _, r := range multi {
		add(r)
	}
	for _, r := range single {
		add(r)
	}
	return out
}

func (nf nameFinder) capitalizedRuns(claim string) []string {
	var runs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			runs = append(runs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, raw := range strings.Fields(claim) {
		word := strings.Trim(raw, ".,!?;:\"()[]¿¡«»")
		word = strings.TrimSuffix(strings.TrimSuffix(word, "'s"), "’s")
		word = strings.Trim(word, "'’")
		r, _ := utf8.DecodeRuneInString(word)
		lower := strings.ToLower(word)
		if word == "" || !unicode.IsUpper(r) || nf.stopwords[lower] {
			flush()
			continue
		}
		if len(current) == 0 && nf.leading[lower] {
			continue
		}
		current = append(current, word)
		// Punctuation after a word closes the name.
		if last, _ := utf8.DecodeLastRuneInString(raw); !unicode.IsLetter(last) {
			flush()
		}
	}
	flush()
	return runs
}

// nameVariants returns name followed by its trailing sub-names of two or more
// words: "Yesterday Denis Villeneuve" also yields "Denis Villeneuve".
func nameVariants(name string) []string {
	fields := strings.Fields(name)
	out := []string{name}
	for i := 1; i+2 <= len(fields); i++ {
		out = append(out, strings.Join(fields[i:], " "))
	}
	return out
}
