package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/llm"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/rs/zerolog/log"
)

// Interpreter reads user queries. With a provider configured it asks the
// model first and merges its reading with the keyword rules.
type Interpreter struct {
	rules    *ruleReader
	provider llm.Provider
	timeout  time.Duration
}

// New creates an interpreter. provider may be nil for rules-only operation.
func New(cfg *config.Config, provider llm.Provider) *Interpreter {
	timeout := cfg.Interpreter.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Interpreter{
		rules:    newRuleReader(cfg),
		provider: provider,
		timeout:  timeout,
	}
}

// Interpret returns the reading of query. Model failures are logged and the
// keyword reading is returned instead.
func (i *Interpreter) Interpret(ctx context.Context, query string) models.Interpretation {
	ruled := i.rules.read(query)
	if i.provider == nil {
		return ruled
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	reading, err := i.askModel(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("provider", i.provider.Name()).Msg("LLM interpretation failed, using rules")
		return ruled
	}
	merged := i.merge(ruled, reading)
	log.Debug().
		Str("rules_intent", string(ruled.Intent)).
		Str("llm_intent", reading.Intent).
		Str("intent", string(merged.Intent)).
		Str("title", merged.Target.Title).
		Msg("Merged interpretation")
	return merged
}

// modelReading is the JSON object the model is asked to produce.
type modelReading struct {
	Intent         string  `json:"intent"`
	TargetTitle    *string `json:"target_title"`
	Task           string  `json:"task"`
	NeedsWeb       bool    `json:"needs_web"`
	NeedsFactCheck bool    `json:"needs_fact_check"`
	QueryPurpose   string  `json:"query_purpose"`
}

const interpreterSystemPrompt = `You analyze questions about films, TV series and the people who make them.
Identify the main title mentioned in the query, even when the description is vague.

Respond with a JSON object:
{
  "intent": "search|analysis|fact_check|report|unknown",
  "target_title": "detected title or null",
  "task": "short description of the task",
  "needs_web": true,
  "needs_fact_check": false,
  "query_purpose": "purpose of the query in one sentence"
}

Rules:
- "search": general information, including questions about the cast
- "analysis": a request to analyze the title in depth
- "fact_check": a request to verify a statement
- "report": a request for a written report or summary
- "needs_web": true when facts about a title are needed (almost always)
- "needs_fact_check": true only for verifications
- "target_title": always try to extract a title, even an approximate one

Examples:
- "who is in the cast of Avengers" -> "intent": "search", "target_title": "Avengers"
- "reparto de The Matrix" -> "intent": "search", "target_title": "The Matrix"
- "is it true that Titanic won 11 Oscars?" -> "intent": "fact_check", "target_title": "Titanic"

Only respond with the JSON object, no other text.`

var codeFence = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

func (i *Interpreter) askModel(ctx context.Context, query string) (*modelReading, error) {
	response, err := i.provider.CompleteWithSystem(ctx, interpreterSystemPrompt, fmt.Sprintf("Query: %q", query), llm.ReadingOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to interpret query: %w", err)
	}

	reading, err := parseReading(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse interpretation response: %w", err)
	}
	return reading, nil
}

func parseReading(response string) (*modelReading, error) {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		if m := codeFence.FindStringSubmatch(response); len(m) > 1 {
			response = m[1]
		}
	}

	var reading modelReading
	if err := json.Unmarshal([]byte(response), &reading); err != nil {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON found in response")
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &reading); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return &reading, nil
}

// merge combines the keyword and model readings. The model's intent wins
// unless it is unknown or unrecognized; the model's title wins, keeping the
// catalog id found by the rules when both name the same title.
func (i *Interpreter) merge(ruled models.Interpretation, reading *modelReading) models.Interpretation {
	merged := ruled

	if intent := models.Intent(strings.ToLower(strings.TrimSpace(reading.Intent))); intent.Valid() && intent != models.IntentUnknown {
		merged.Intent = intent
	}

	if reading.TargetTitle != nil {
		if title := strings.TrimSpace(*reading.TargetTitle); title != "" && !strings.EqualFold(title, "null") {
			target := i.rules.lookup(title)
			if target.TMDBID == 0 && ruled.Target.TMDBID > 0 && sameTitle(title, ruled.Target.Title) {
				target = ruled.Target
			}
			merged.Target = target
		}
	}

	merged.NeedsWeb = ruled.NeedsWeb || reading.NeedsWeb
	merged.NeedsFactCheck = reading.NeedsFactCheck || merged.Intent == models.IntentFactCheck
	task, purpose := describe(merged)
	merged.Task = firstNonEmpty(reading.Task, task)
	merged.Purpose = firstNonEmpty(reading.QueryPurpose, purpose)
	return merged
}

func sameTitle(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
