package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/factchecker/cinecheck/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS queries (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			intent TEXT NOT NULL,
			title TEXT NOT NULL,
			claim TEXT,
			is_true INTEGER,
			confidence TEXT,
			category TEXT,
			method TEXT,
			evidence TEXT,
			report_path TEXT,
			response TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_created ON queries(created_at)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			remote_addr TEXT NOT NULL,
			request_size INTEGER NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// truthToNull stores unknown as NULL, true as 1 and false as 0.
func truthToNull(t models.Truth) sql.NullInt64 {
	switch t {
	case models.TruthTrue:
		return sql.NullInt64{Int64: 1, Valid: true}
	case models.TruthFalse:
		return sql.NullInt64{Int64: 0, Valid: true}
	default:
		return sql.NullInt64{}
	}
}

func truthFromNull(n sql.NullInt64) models.Truth {
	switch {
	case !n.Valid:
		return models.TruthUnknown
	case n.Int64 != 0:
		return models.TruthTrue
	default:
		return models.TruthFalse
	}
}

// SaveQuery stores a chat query and its outcome.
func (s *SQLiteStore) SaveQuery(ctx context.Context, r *models.QueryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queries (id, query, intent, title, claim, is_true, confidence, category, method,
			evidence, report_path, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Query, r.Intent, r.Title, r.Claim, truthToNull(r.IsTrue), r.Confidence, r.Category,
		r.Method, r.Evidence, r.ReportPath, r.Response, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

const selectQuery = `
	SELECT id, query, intent, title, claim, is_true, confidence, category, method,
		evidence, report_path, response, created_at
	FROM queries`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuery(row scanner) (*models.QueryRecord, error) {
	var (
		r                                   models.QueryRecord
		isTrue                              sql.NullInt64
		claim, confidence, category, method sql.NullString
		evidence, reportPath                sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Query, &r.Intent, &r.Title, &claim, &isTrue, &confidence, &category,
		&method, &evidence, &reportPath, &r.Response, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Claim = claim.String
	r.IsTrue = truthFromNull(isTrue)
	r.Confidence = models.Confidence(confidence.String)
	r.Category = models.Category(category.String)
	r.Method = models.Method(method.String)
	r.Evidence = evidence.String
	r.ReportPath = reportPath.String
	return &r, nil
}

// GetQuery retrieves a query by ID. It returns nil when no such query exists.
func (s *SQLiteStore) GetQuery(ctx context.Context, id string) (*models.QueryRecord, error) {
	r, err := scanQuery(s.db.QueryRowContext(ctx, selectQuery+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListQueries returns paginated queries, newest first.
func (s *SQLiteStore) ListQueries(ctx context.Context, limit, offset int) ([]*models.QueryRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectQuery+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.QueryRecord
	for rows.Next() {
		r, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LogRequest stores an audit log entry.
func (s *SQLiteStore) LogRequest(ctx context.Context, log *models.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, request_id, endpoint, method, remote_addr, request_size, response_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.RequestID, log.Endpoint, log.Method, log.RemoteAddr, log.RequestSize,
		log.ResponseCode, log.DurationMs, log.Timestamp)
	return err
}

// GetAuditLogs returns paginated audit logs, newest first.
func (s *SQLiteStore) GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, endpoint, method, remote_addr, request_size, response_code, duration_ms, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.RequestID, &l.Endpoint, &l.Method, &l.RemoteAddr,
			&l.RequestSize, &l.ResponseCode, &l.DurationMs, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
