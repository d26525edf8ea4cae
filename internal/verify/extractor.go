// Package verify checks claims about films and series against scraped evidence.
package verify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	questionMarks = strings.NewReplacer("?", "", "¿", "")
	spaces        = regexp.MustCompile(`\s+`)
)

// ClaimExtractor turns a user query into a canonical claim string.
type ClaimExtractor struct {
	patterns []*regexp.Regexp
}

// NewClaimExtractor creates an extractor that strips the given boilerplate phrases.
func NewClaimExtractor(phrases []string) *ClaimExtractor {
	sorted := append([]string(nil), phrases...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	e := &ClaimExtractor{}
	for _, p := range sorted {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		e.patterns = append(e.patterns, regexp.MustCompile(phrasePattern(p)))
	}
	return e
}

// Extract removes boilerplate phrases and question marks anywhere in the
// query and trims the result. It never fails; unmatched input comes back trimmed.
func (e *ClaimExtractor) Extract(query string) string {
	claim := query
	for _, re := range e.patterns {
		claim = re.ReplaceAllString(claim, " ")
	}
	claim = questionMarks.Replace(claim)
	claim = spaces.ReplaceAllString(claim, " ")
	return strings.Trim(claim, " \t\n,:;")
}

// phrasePattern builds a case-insensitive pattern for p, anchored on word
// boundaries where p begins or ends with an ASCII word character.
func phrasePattern(p string) string {
	pattern := regexp.QuoteMeta(p)
	pattern = strings.ReplaceAll(pattern, " ", `\s+`)
	if first, _ := utf8.DecodeRuneInString(p); isASCIIWord(first) {
		pattern = `\b` + pattern
	}
	if last, _ := utf8.DecodeLastRuneInString(p); isASCIIWord(last) {
		pattern += `\b`
	}
	return "(?i)" + pattern
}

func isASCIIWord(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
