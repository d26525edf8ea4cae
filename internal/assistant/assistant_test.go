package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/database"
	"github.com/factchecker/cinecheck/internal/interpret"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/factchecker/cinecheck/internal/report"
	"github.com/factchecker/cinecheck/internal/scrape"
	"github.com/factchecker/cinecheck/internal/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	records map[int]*models.EvidenceRecord
	err     error
	calls   []models.TitleRef
}

func (f *fakeProvider) Fetch(ctx context.Context, ref models.TitleRef) (*models.EvidenceRecord, error) {
	f.calls = append(f.calls, ref)
	if f.err != nil {
		return nil, f.err
	}
	if ev, ok := f.records[ref.TMDBID]; ok {
		return ev, nil
	}
	return nil, scrape.ErrNotFound
}

func (f *fakeProvider) Name() string { return "fake" }

type failingWriter struct{}

func (failingWriter) Write(models.Interpretation, *models.EvidenceRecord, *models.Verdict) (*models.Report, error) {
	return nil, errors.New("disk full")
}

func breakingBad() *models.EvidenceRecord {
	return &models.EvidenceRecord{
		Source:   "fake",
		Title:    "Breaking Bad",
		Year:     "2008",
		Creator:  "Vince Gilligan",
		Genres:   []string{"Drama", "Crime"},
		Overview: "A high school chemistry teacher turned methamphetamine producer.",
		Cast: []models.CastMember{
			{Actor: "Bryan Cranston", Character: "Walter White"},
			{Actor: "Aaron Paul", Character: "Jesse Pinkman"},
		},
	}
}

type harness struct {
	assistant *Assistant
	provider  *fakeProvider
	store     *database.SQLiteStore
	reports   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	dir := t.TempDir()

	store, err := database.NewSQLiteStore(filepath.Join(dir, "cinecheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	provider := &fakeProvider{records: map[int]*models.EvidenceRecord{1396: breakingBad()}}
	reports := filepath.Join(dir, "reports")
	a := New(
		interpret.New(cfg, nil),
		provider,
		verify.NewEngine(cfg, nil),
		report.NewWriter(reports),
		store,
	)
	return &harness{assistant: a, provider: provider, store: store, reports: reports}
}

func TestAsk_FactCheck(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.assistant.Ask(ctx, "Is it true that Aaron Paul acted in Breaking Bad?")
	require.NoError(t, err)

	require.Len(t, h.provider.calls, 1)
	assert.Equal(t, 1396, h.provider.calls[0].TMDBID)

	require.NotNil(t, res.Verdict)
	assert.Equal(t, models.TruthTrue, res.Verdict.IsTrue)
	assert.Equal(t, models.CategoryCast, res.Verdict.Category)
	assert.Contains(t, res.Response, "Status: **TRUE**")

	require.NotNil(t, res.Report)
	assert.Equal(t, h.reports, filepath.Dir(res.Report.Filename))

	saved, err := h.store.GetQuery(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, models.IntentFactCheck, saved.Intent)
	assert.Equal(t, models.TruthTrue, saved.IsTrue)
	assert.Equal(t, res.Report.Filename, saved.ReportPath)
	assert.Equal(t, res.Response, saved.Response)
}

func TestAsk_Search(t *testing.T) {
	h := newHarness(t)

	res, err := h.assistant.Ask(context.Background(), "Dame información de Breaking Bad")
	require.NoError(t, err)

	assert.Nil(t, res.Verdict)
	require.NotNil(t, res.Evidence)
	assert.Contains(t, res.Response, "**Information found about Breaking Bad:**")
	assert.Contains(t, res.Response, "chemistry teacher")
}

func TestAsk_NoTitle(t *testing.T) {
	h := newHarness(t)

	res, err := h.assistant.Ask(context.Background(), "Is it true that the director won?")
	require.NoError(t, err)

	assert.Equal(t, report.NoTitleReply, res.Response)
	assert.Empty(t, h.provider.calls)
	assert.Nil(t, res.Report)
}

func TestAsk_FetchFailureBecomesErrorRecord(t *testing.T) {
	h := newHarness(t)

	res, err := h.assistant.Ask(context.Background(), `Is it true that "Heat" was released in 1995?`)
	require.NoError(t, err)

	require.NotNil(t, res.Evidence)
	assert.True(t, res.Evidence.HasError())
	require.NotNil(t, res.Verdict)
	assert.Equal(t, models.TruthUnknown, res.Verdict.IsTrue)
	assert.Equal(t, models.ConfidenceLow, res.Verdict.Confidence)
	assert.Contains(t, res.Response, "INCONCLUSIVE")

	h.provider.err = errors.New("connection reset")
	res, err = h.assistant.Ask(context.Background(), "Is it true that Breaking Bad premiered in 2008?")
	require.NoError(t, err)
	assert.Equal(t, "could not retrieve information", res.Evidence.Error)
}

func TestAsk_Unknown(t *testing.T) {
	h := newHarness(t)

	res, err := h.assistant.Ask(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Empty(t, h.provider.calls)
	assert.Contains(t, res.Response, "I don't understand the query")
	assert.NotNil(t, res.Report, "a report is written for every answered query")
}

func TestAsk_ReportFailureDegrades(t *testing.T) {
	cfg := config.DefaultConfig()
	provider := &fakeProvider{records: map[int]*models.EvidenceRecord{1396: breakingBad()}}
	a := New(interpret.New(cfg, nil), provider, verify.NewEngine(cfg, nil), failingWriter{}, nil)

	res, err := a.Ask(context.Background(), "Is it true that Breaking Bad premiered in 2008?")
	require.NoError(t, err)
	assert.Nil(t, res.Report)
	require.NotNil(t, res.Verdict)
	assert.Equal(t, models.TruthTrue, res.Verdict.IsTrue)
}

func TestAsk_EmptyQuery(t *testing.T) {
	h := newHarness(t)
	_, err := h.assistant.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}
