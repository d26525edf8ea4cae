// Package database provides the persistence layer for query history and
// API audit logs.
package database

import (
	"context"
	"fmt"

	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/models"
)

// Store defines the interface for data persistence.
type Store interface {
	// Query history
	SaveQuery(ctx context.Context, record *models.QueryRecord) error
	GetQuery(ctx context.Context, id string) (*models.QueryRecord, error)
	ListQueries(ctx context.Context, limit, offset int) ([]*models.QueryRecord, error)

	// Audit logs
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}

// Open creates the store selected by the database configuration.
func Open(cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
