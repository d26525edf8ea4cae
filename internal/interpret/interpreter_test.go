package interpret

import (
	"context"
	"errors"
	"testing"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/llm"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string, opts llm.CompletionOptions) (string, error) {
	return f.CompleteWithSystem(ctx, "", prompt, opts)
}

func (f *fakeProvider) CompleteWithSystem(ctx context.Context, system, user string, opts llm.CompletionOptions) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestInterpret_Rules(t *testing.T) {
	in := New(config.DefaultConfig(), nil)

	tests := []struct {
		name   string
		query  string
		intent models.Intent
		target models.TitleRef
		person string
	}{
		{
			name:   "fact check with catalog title and person",
			query:  "Verify whether Bryan Cranston won an Emmy for Breaking Bad",
			intent: models.IntentFactCheck,
			target: models.TitleRef{Title: "Breaking Bad", TMDBID: 1396, MediaType: models.MediaTV},
			person: "Bryan Cranston",
		},
		{
			name:   "spanish search",
			query:  "Dame información de Breaking Bad",
			intent: models.IntentSearch,
			target: models.TitleRef{Title: "Breaking Bad", TMDBID: 1396, MediaType: models.MediaTV},
		},
		{
			name:   "report",
			query:  "Write a report on the office",
			intent: models.IntentReport,
			target: models.TitleRef{Title: "The Office", TMDBID: 2316, MediaType: models.MediaTV},
		},
		{
			name:   "quoted title",
			query:  `Tell me about "Inception"`,
			intent: models.IntentSearch,
			target: models.TitleRef{Title: "Inception"},
		},
		{
			name:   "capitalized run after preposition",
			query:  "Analyze the themes of Mad Men.",
			intent: models.IntentAnalysis,
			target: models.TitleRef{Title: "Mad Men"},
		},
		{
			name:   "award table title",
			query:  "Is it true that Titanic won 11 Oscars?",
			intent: models.IntentFactCheck,
			target: models.TitleRef{Title: "Titanic"},
		},
		{
			name:   "fact check outranks search keywords",
			query:  "Is it true that the cast of Better Call Saul includes Bob Odenkirk?",
			intent: models.IntentFactCheck,
			target: models.TitleRef{Title: "Better Call Saul", TMDBID: 60059, MediaType: models.MediaTV},
			person: "Bob Odenkirk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := in.Interpret(context.Background(), tt.query)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.target, got.Target)
			assert.Equal(t, tt.person, got.Person)
			assert.Equal(t, tt.query, got.Claim)
			assert.True(t, got.NeedsWeb)
			assert.Equal(t, tt.intent == models.IntentFactCheck, got.NeedsFactCheck)
			assert.NotEmpty(t, got.Purpose)
		})
	}
}

func TestInterpret_Unknown(t *testing.T) {
	got := New(config.DefaultConfig(), nil).Interpret(context.Background(), "hello there")
	assert.Equal(t, models.IntentUnknown, got.Intent)
	assert.Empty(t, got.Target.Title)
	assert.False(t, got.NeedsWeb)
	assert.False(t, got.NeedsFactCheck)
}

func TestInterpret_ModelMerged(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n" + `{
		"intent": "fact_check",
		"target_title": "breaking bad",
		"task": "verify the director",
		"needs_web": true,
		"needs_fact_check": true,
		"query_purpose": "Confirm who created the show"
	}` + "\n```"}
	in := New(config.DefaultConfig(), provider)

	got := in.Interpret(context.Background(), "who made Breaking Bad? Vince Gilligan?")
	require.Equal(t, 1, provider.calls)

	assert.Equal(t, models.IntentFactCheck, got.Intent)
	assert.Equal(t, models.TitleRef{Title: "Breaking Bad", TMDBID: 1396, MediaType: models.MediaTV}, got.Target)
	assert.True(t, got.NeedsFactCheck)
	assert.Equal(t, "verify the director", got.Task)
	assert.Equal(t, "Confirm who created the show", got.Purpose)
	assert.Equal(t, "Vince Gilligan", got.Person)
}

func TestInterpret_ModelTitleKeepsCatalogID(t *testing.T) {
	provider := &fakeProvider{reply: `{"intent":"search","target_title":"Breaking Bad (2008)","needs_web":true}`}
	got := New(config.DefaultConfig(), provider).Interpret(context.Background(), "info on breaking bad")

	assert.Equal(t, models.IntentSearch, got.Intent)
	assert.Equal(t, 1396, got.Target.TMDBID)
}

func TestInterpret_ModelUnknownIntentKeepsRules(t *testing.T) {
	provider := &fakeProvider{reply: `Sure! {"intent":"unknown","target_title":null}`}
	got := New(config.DefaultConfig(), provider).Interpret(context.Background(), "Verify that Aaron Paul acted in Breaking Bad")

	assert.Equal(t, models.IntentFactCheck, got.Intent)
	assert.Equal(t, "Breaking Bad", got.Target.Title)
	assert.True(t, got.NeedsFactCheck)
}

func TestInterpret_ModelFailureFallsBack(t *testing.T) {
	for name, provider := range map[string]*fakeProvider{
		"error":    {err: errors.New("connection refused")},
		"not json": {reply: "I cannot help with that."},
	} {
		t.Run(name, func(t *testing.T) {
			got := New(config.DefaultConfig(), provider).Interpret(context.Background(), "Dame información de Breaking Bad")
			assert.Equal(t, models.IntentSearch, got.Intent)
			assert.Equal(t, 1396, got.Target.TMDBID)
		})
	}
}
