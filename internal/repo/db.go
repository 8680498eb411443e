// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the startup readiness
// probe used by the cmd/ entrypoints.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for all store entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Visitor{},
		&domain.User{},
		&domain.Session{},
		&domain.Message{},
		&domain.KnowledgeEntry{},
		&domain.WidgetConfig{},
		&domain.ContextEntry{},
	)
}

// WaitForDB retries a trivial probe until the database answers, up to
// maxRetries attempts with a fixed backoff between them. It returns the
// last probe error when the budget is exhausted, or the context error if
// the caller gives up first. The store itself assumes a ready connection;
// only the entrypoints call this.
func WaitForDB(ctx context.Context, db *gorm.DB, maxRetries int, backoff time.Duration) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		sqlDB, err := db.DB()
		if err == nil {
			if err = sqlDB.PingContext(ctx); err == nil {
				return nil
			}
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("database not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return lastErr
}
