package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/rs/zerolog/log"
)

const insufficientEvidence = "Insufficient information to verify this claim"

// Engine runs extraction, classification and comparison for a single claim,
// consulting the oracle when the rules cannot decide. It keeps no state
// between calls and is safe for concurrent use.
type Engine struct {
	extractor     *ClaimExtractor
	classifier    *CategoryClassifier
	comparators   map[models.Category]Comparator
	oracle        JudgeOracle
	oracleTimeout time.Duration
	digest        DigestOptions
}

// NewEngine creates a verification engine. oracle may be nil.
func NewEngine(cfg *config.Config, oracle JudgeOracle) *Engine {
	rules := cfg.Rules
	generic := &GenericComparator{
		minLen:     rules.ImportantWordMinLen,
		support:    rules.GenericSupport,
		contradict: rules.GenericContradict,
	}

	timeout := cfg.Oracle.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Engine{
		extractor:  NewClaimExtractor(rules.ClaimPrefixes),
		classifier: NewCategoryClassifier(rules),
		comparators: map[models.Category]Comparator{
			models.CategoryAward: newAwardComparator(rules),
			models.CategoryDirector: &DirectorComparator{
				names:    ruleNameFinder(rules.KnownDirectors, rules),
				fallback: generic,
			},
			models.CategoryCast: &CastComparator{
				names:    ruleNameFinder(rules.KnownActors, rules),
				fallback: generic,
			},
			models.CategoryYear:    YearComparator{},
			models.CategoryGeneric: generic,
		},
		oracle:        oracle,
		oracleTimeout: timeout,
		digest: DigestOptions{
			CastSize:     rules.DigestCastSize,
			SummaryRunes: rules.DigestSummaryRunes,
		},
	}
}

// HasOracle reports whether an oracle is configured.
func (e *Engine) HasOracle() bool {
	return e.oracle != nil
}

// Verify checks the claim contained in query against evidence. It never
// fails: missing evidence, ambiguous claims and oracle errors all yield an
// unknown verdict with an explanation.
func (e *Engine) Verify(ctx context.Context, query string, evidence *models.EvidenceRecord) (result models.Verdict) {
	claim := e.extractor.Extract(query)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("claim", claim).Msg("Verification panicked")
			result = models.Verdict{
				Claim:      claim,
				IsTrue:     models.TruthUnknown,
				Evidence:   fmt.Sprintf("Verification error: %v", r),
				Confidence: models.ConfidenceLow,
				Method:     models.MethodNone,
			}
		}
	}()

	if evidence == nil || evidence.HasError() {
		reason := "no evidence was found"
		if evidence != nil {
			reason = evidence.Error
		}
		log.Warn().Str("claim", claim).Str("reason", reason).Msg("No usable evidence for fact-check")
		return models.Verdict{
			Claim:      claim,
			IsTrue:     models.TruthUnknown,
			Evidence:   fmt.Sprintf("%s (%s).", insufficientEvidence, reason),
			Confidence: models.ConfidenceLow,
			Method:     models.MethodNone,
		}
	}

	category := e.classifier.Classify(claim)
	result = e.comparators[category].Compare(claim, evidence)
	result.Claim = claim
	result.Category = category
	result.Method = models.MethodRules

	log.Debug().
		Str("claim", claim).
		Str("category", string(category)).
		Str("is_true", result.IsTrue.String()).
		Str("confidence", string(result.Confidence)).
		Msg("Rule-based verdict")

	if result.IsTrue == models.TruthUnknown && e.oracle != nil {
		result = e.consultOracle(ctx, claim, evidence, result)
	}
	return result
}

// consultOracle asks the oracle once, bounded by the oracle timeout. Any
// failure or undecided reply keeps the prior verdict.
func (e *Engine) consultOracle(ctx context.Context, claim string, evidence *models.EvidenceRecord, prior models.Verdict) models.Verdict {
	ctx, cancel := context.WithTimeout(ctx, e.oracleTimeout)
	defer cancel()

	prompt := BuildPrompt(claim, BuildDigest(evidence, e.digest))

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		text, err := e.oracle.Ask(ctx, prompt)
		done <- reply{text: text, err: err}
	}()

	var r reply
	select {
	case r = <-done:
	case <-ctx.Done():
		r = reply{err: ctx.Err()}
	}
	if r.err != nil {
		log.Warn().Err(r.err).Str("claim", claim).Msg("Oracle unavailable, keeping rule-based verdict")
		return prior
	}

	answer := ParseOracleReply(r.text)
	if answer.Truth == models.TruthUnknown {
		log.Debug().Str("claim", claim).Msg("Oracle reply was inconclusive")
		return prior
	}

	explanation := answer.Explanation
	if explanation == "" {
		explanation = fmt.Sprintf("The language model judged the claim %s against the evidence.", answer.Truth)
	}
	return models.Verdict{
		Claim:      claim,
		IsTrue:     answer.Truth,
		Evidence:   explanation,
		Confidence: models.ConfidenceMedium,
		Category:   prior.Category,
		Method:     models.MethodOracle,
	}
}
