// Package assistant runs the chat pipeline: interpret the query, fetch
// evidence, verify claims, write the report and answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factchecker/cinecheck/internal/database"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/factchecker/cinecheck/internal/report"
	"github.com/factchecker/cinecheck/internal/scrape"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("query is empty")

// Interpreter reads a user query.
type Interpreter interface {
	Interpret(ctx context.Context, query string) models.Interpretation
}

// Verifier checks a claim against evidence.
type Verifier interface {
	Verify(ctx context.Context, query string, evidence *models.EvidenceRecord) models.Verdict
}

// ReportWriter saves a report for one query.
type ReportWriter interface {
	Write(interp models.Interpretation, evidence *models.EvidenceRecord, verdict *models.Verdict) (*models.Report, error)
}

// Assistant wires the pipeline stages together.
type Assistant struct {
	interpreter Interpreter
	provider    scrape.Provider
	verifier    Verifier
	reports     ReportWriter
	store       database.Store
}

// New creates an assistant. store may be nil to skip persistence.
func New(interpreter Interpreter, provider scrape.Provider, verifier Verifier, reports ReportWriter, store database.Store) *Assistant {
	return &Assistant{
		interpreter: interpreter,
		provider:    provider,
		verifier:    verifier,
		reports:     reports,
		store:       store,
	}
}

// Ask answers one chat query. Only an empty query is an error; failures in
// the scraper, report writer or store degrade the answer instead.
func (a *Assistant) Ask(ctx context.Context, query string) (*models.ChatResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	result := &models.ChatResult{ID: uuid.New().String()}
	logger := log.With().Str("query_id", result.ID).Logger()

	interp := a.interpreter.Interpret(ctx, query)
	result.Interpretation = interp
	logger.Info().
		Str("intent", string(interp.Intent)).
		Str("title", interp.Target.Title).
		Bool("needs_web", interp.NeedsWeb).
		Msg("Query interpreted")

	wantsFacts := interp.NeedsWeb ||
		interp.Intent == models.IntentSearch ||
		interp.Intent == models.IntentAnalysis ||
		interp.Intent == models.IntentFactCheck

	if wantsFacts {
		if interp.Target.Title == "" && interp.Target.TMDBID == 0 {
			result.Response = report.NoTitleReply
			a.persist(ctx, query, result)
			return result, nil
		}
		result.Evidence = a.fetch(ctx, interp.Target)
	}

	if interp.Intent == models.IntentFactCheck || interp.NeedsFactCheck {
		verdict := a.verifier.Verify(ctx, interp.Claim, result.Evidence)
		result.Verdict = &verdict
		logger.Info().
			Str("claim", verdict.Claim).
			Str("is_true", verdict.IsTrue.String()).
			Str("method", string(verdict.Method)).
			Msg("Claim verified")
	}

	rep, err := a.reports.Write(interp, result.Evidence, result.Verdict)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to write report")
	} else {
		result.Report = rep
	}

	result.Response = report.ChatReply(interp, result.Evidence, result.Verdict, result.Report)
	a.persist(ctx, query, result)

	logger.Info().Dur("duration", time.Since(start)).Msg("Query answered")
	return result, nil
}

// fetch returns the evidence for ref. Errors become an error record so the
// verifier and report can explain the gap.
func (a *Assistant) fetch(ctx context.Context, ref models.TitleRef) *models.EvidenceRecord {
	ev, err := a.provider.Fetch(ctx, ref)
	if err == nil {
		return ev
	}

	log.Warn().Err(err).Str("title", ref.Title).Str("source", a.provider.Name()).Msg("Evidence fetch failed")
	msg := "could not retrieve information"
	if errors.Is(err, scrape.ErrNotFound) {
		msg = fmt.Sprintf("no page found for %q", ref.Title)
	}
	return &models.EvidenceRecord{Source: a.provider.Name(), Title: ref.Title, Error: msg}
}

func (a *Assistant) persist(ctx context.Context, query string, result *models.ChatResult) {
	if a.store == nil {
		return
	}

	record := &models.QueryRecord{
		ID:        result.ID,
		Query:     query,
		Intent:    result.Interpretation.Intent,
		Title:     result.Interpretation.Target.Title,
		Response:  result.Response,
		CreatedAt: time.Now().UTC(),
	}
	if v := result.Verdict; v != nil {
		record.Claim = v.Claim
		record.IsTrue = v.IsTrue
		record.Confidence = v.Confidence
		record.Category = v.Category
		record.Method = v.Method
		record.Evidence = v.Evidence
	}
	if result.Report != nil {
		record.ReportPath = result.Report.Filename
	}

	if err := a.store.SaveQuery(ctx, record); err != nil {
		log.Warn().Err(err).Str("query_id", result.ID).Msg("Failed to persist query")
	}
}
