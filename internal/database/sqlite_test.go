package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Queries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	records := []*models.QueryRecord{
		{
			ID: "q1", Query: "Dame información de Breaking Bad", Intent: models.IntentSearch,
			Title: "Breaking Bad", Response: "info", CreatedAt: base,
		},
		{
			ID: "q2", Query: "Is it true that Aaron Paul acted in Breaking Bad?", Intent: models.IntentFactCheck,
			Title: "Breaking Bad", Claim: "Aaron Paul acted in Breaking Bad", IsTrue: models.TruthTrue,
			Confidence: models.ConfidenceHigh, Category: models.CategoryCast, Method: models.MethodRules,
			Evidence: "Aaron Paul is in the cast.", ReportPath: "reports/report_1.md", Response: "TRUE",
			CreatedAt: base.Add(time.Minute),
		},
		{
			ID: "q3", Query: "Was Breaking Bad a comedy?", Intent: models.IntentFactCheck,
			Title: "Breaking Bad", Claim: "Breaking Bad a comedy", IsTrue: models.TruthFalse,
			Confidence: models.ConfidenceMedium, Category: models.CategoryGeneric, Method: models.MethodOracle,
			Response: "FALSE", CreatedAt: base.Add(2 * time.Minute),
		},
	}
	for _, r := range records {
		require.NoError(t, store.SaveQuery(ctx, r))
	}

	got, err := store.GetQuery(ctx, "q2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.TruthTrue, got.IsTrue)
	assert.Equal(t, models.CategoryCast, got.Category)
	assert.Equal(t, models.MethodRules, got.Method)
	assert.Equal(t, "reports/report_1.md", got.ReportPath)
	assert.True(t, got.CreatedAt.Equal(base.Add(time.Minute)))

	got, err = store.GetQuery(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, models.TruthUnknown, got.IsTrue, "no verdict is stored as NULL")
	assert.Empty(t, got.Claim)

	got, err = store.GetQuery(ctx, "q3")
	require.NoError(t, err)
	assert.Equal(t, models.TruthFalse, got.IsTrue)

	missing, err := store.GetQuery(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := store.ListQueries(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "q3", list[0].ID)
	assert.Equal(t, "q2", list[1].ID)

	list, err = store.ListQueries(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "q1", list[0].ID)

	assert.Error(t, store.SaveQuery(ctx, records[0]), "duplicate id")
}

func TestSQLiteStore_AuditLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.LogRequest(ctx, &models.AuditLog{
		ID: "a1", RequestID: "req-1", Endpoint: "/api/chat", Method: "POST", RemoteAddr: "10.0.0.1",
		RequestSize: 42, ResponseCode: 200, DurationMs: 15, Timestamp: now,
	}))
	require.NoError(t, store.LogRequest(ctx, &models.AuditLog{
		ID: "a2", RequestID: "req-2", Endpoint: "/api/v1/health", Method: "GET", RemoteAddr: "10.0.0.2",
		ResponseCode: 200, DurationMs: 1, Timestamp: now.Add(time.Second),
	}))

	logs, err := store.GetAuditLogs(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "a2", logs[0].ID)
	assert.Equal(t, "req-1", logs[1].RequestID)
	assert.Equal(t, int64(42), logs[1].RequestSize)
	assert.Equal(t, "10.0.0.1", logs[1].RemoteAddr)
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Migrate())
}

func TestOpen(t *testing.T) {
	store, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = Open(&config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}
