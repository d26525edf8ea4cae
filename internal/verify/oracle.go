package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/factchecker/cinecheck/internal/llm"
	"github.com/factchecker/cinecheck/internal/models"
)

// JudgeOracle is an external judge consulted when the rules are inconclusive.
type JudgeOracle interface {
	// Ask sends a prompt and returns the raw reply text.
	Ask(ctx context.Context, prompt string) (string, error)
}

// ProviderOracle adapts an llm.Provider to JudgeOracle.
type ProviderOracle struct {
	provider llm.Provider
}

// NewProviderOracle wraps provider as a JudgeOracle.
func NewProviderOracle(provider llm.Provider) *ProviderOracle {
	return &ProviderOracle{provider: provider}
}

const oracleSystemPrompt = `You are a fact-checking expert for films and TV series.
Judge the claim ONLY against the evidence provided. If the evidence does not settle
the claim, answer UNKNOWN.

Respond with a JSON object:
{
  "verdict": "TRUE|FALSE|UNKNOWN",
  "explanation": "One or two sentences citing the evidence"
}

Only respond with the JSON object, no other text.`

// Ask implements JudgeOracle.
func (o *ProviderOracle) Ask(ctx context.Context, prompt string) (string, error) {
	reply, err := o.provider.CompleteWithSystem(ctx, oracleSystemPrompt, prompt, llm.VerdictOptions())
	if err != nil {
		return "", fmt.Errorf("oracle %s: %w", o.provider.Name(), err)
	}
	return reply, nil
}

// DigestOptions bounds the size of the evidence digest sent to the oracle.
type DigestOptions struct {
	CastSize     int
	SummaryRunes int
}

// BuildDigest renders the evidence as a short plain-text fact sheet.
func BuildDigest(ev *models.EvidenceRecord, opts DigestOptions) string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "not available"
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", orNA(ev.Title))
	fmt.Fprintf(&b, "Year: %s\n", orNA(ev.Year))
	if ev.Director == "" && ev.Creator != "" {
		fmt.Fprintf(&b, "Creator: %s\n", ev.Creator)
	} else {
		fmt.Fprintf(&b, "Director: %s\n", orNA(ev.Director))
	}
	fmt.Fprintf(&b, "Genres: %s\n", orNA(strings.Join(ev.Genres, ", ")))
	if ev.Awards != "" {
		fmt.Fprintf(&b, "Awards: %s\n", ev.Awards)
	}
	fmt.Fprintf(&b, "Summary: %s\n", orNA(truncateRunes(ev.Description(), opts.SummaryRunes)))

	cast := ev.ActorNames()
	if opts.CastSize > 0 && len(cast) > opts.CastSize {
		cast = cast[:opts.CastSize]
	}
	fmt.Fprintf(&b, "Cast: %s", orNA(strings.Join(cast, ", ")))
	return b.String()
}

// BuildPrompt combines the claim and the evidence digest into the oracle prompt.
func BuildPrompt(claim, digest string) string {
	return fmt.Sprintf("Claim: %s\n\nEvidence:\n%s\n\nIs the claim TRUE, FALSE or UNKNOWN given this evidence?", claim, digest)
}

// OracleAnswer is a parsed oracle reply.
type OracleAnswer struct {
	Truth       models.Truth
	Explanation string
}

var (
	fencePattern       = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	verdictLinePattern = regexp.MustCompile(`(?im)^\W*verdict\W*[:=]\s*\W*([\p{L}]+)`)
	explanationPattern = regexp.MustCompile(`(?is)explanation\W*[:=]\s*(.+)`)
)

var (
	trueTokens = map[string]bool{
		"true": true, "verdadero": true, "verdadera": true, "cierto": true, "correct": true,
		"correcto": true, "supported": true, "confirmed": true,
	}
	falseTokens = map[string]bool{
		"false": true, "falso": true, "falsa": true, "incorrect": true, "incorrecto": true,
		"contradicted": true, "wrong": true,
	}
	negations = map[string]bool{"not": true, "no": true, "isn't": true, "never": true}
)

// ParseOracleReply extracts a ternary verdict and explanation from free text.
// It tries a JSON object first, then a "VERDICT:" line, then a scan for
// true/false words. Anything ambiguous or unrecognized is unknown.
func ParseOracleReply(reply string) OracleAnswer {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return OracleAnswer{Truth: models.TruthUnknown}
	}

	body := reply
	if m := fencePattern.FindStringSubmatch(body); len(m) > 1 {
		body = m[1]
	}

	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		var parsed struct {
			Verdict     json.RawMessage `json:"verdict"`
			Explanation string          `json:"explanation"`
			Reasoning   string          `json:"reasoning"`
		}
		if err := json.Unmarshal([]byte(body[start:end+1]), &parsed); err == nil && len(parsed.Verdict) > 0 {
			explanation := parsed.Explanation
			if explanation == "" {
				explanation = parsed.Reasoning
			}
			return OracleAnswer{Truth: jsonVerdict(parsed.Verdict), Explanation: strings.TrimSpace(explanation)}
		}
	}

	if m := verdictLinePattern.FindStringSubmatch(body); len(m) > 1 {
		explanation := ""
		if e := explanationPattern.FindStringSubmatch(body); len(e) > 1 {
			explanation = strings.TrimSpace(e[1])
		} else {
			explanation = strings.TrimSpace(verdictLinePattern.ReplaceAllString(body, ""))
		}
		return OracleAnswer{Truth: tokenVerdict(m[1]), Explanation: explanation}
	}

	return OracleAnswer{Truth: scanVerdict(body), Explanation: body}
}

func jsonVerdict(raw json.RawMessage) models.Truth {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return models.TruthTrue
		}
		return models.TruthFalse
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return tokenVerdict(s)
	}
	return models.TruthUnknown
}

func tokenVerdict(token string) models.Truth {
	token = strings.ToLower(strings.TrimSpace(token))
	switch {
	case trueTokens[token]:
		return models.TruthTrue
	case falseTokens[token]:
		return models.TruthFalse
	default:
		return models.TruthUnknown
	}
}

// scanVerdict looks for verdict words in prose. A negated true word counts
// as false; seeing both sides yields unknown.
func scanVerdict(text string) models.Truth {
	var sawTrue, sawFalse bool
	tokens := words(text)
	for i, tok := range tokens {
		negated := i > 0 && negations[tokens[i-1]]
		switch {
		case trueTokens[tok] && negated:
			sawFalse = true
		case trueTokens[tok]:
			sawTrue = true
		case falseTokens[tok]:
			sawFalse = true
		}
	}
	switch {
	case sawTrue && !sawFalse:
		return models.TruthTrue
	case sawFalse && !sawTrue:
		return models.TruthFalse
	default:
		return models.TruthUnknown
	}
}
