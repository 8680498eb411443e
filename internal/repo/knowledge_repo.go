// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// KnowledgeEntry model.
//
// Counter bumps are compiled to single UPDATE ... SET x = x + 1 statements
// (gorm.Expr) so concurrent increments cannot lose updates; the engine's
// row lock serializes them.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

// CreateKnowledgeEntry inserts a new FAQ row. New entries start active with
// priority 0 and zeroed counters unless the caller says otherwise.
func CreateKnowledgeEntry(ctx context.Context, db *gorm.DB, e *domain.KnowledgeEntry) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	return db.WithContext(ctx).Create(e).Error
}

// GetKnowledgeEntry fetches an entry by ID regardless of its active flag.
// Inactive entries stay readable by identifier; only search excludes them.
func GetKnowledgeEntry(ctx context.Context, db *gorm.DB, id uint) (*domain.KnowledgeEntry, error) {
	var e domain.KnowledgeEntry
	if err := db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListActiveEntries returns all active entries, optionally filtered by
// category, ordered by priority descending with ID ascending as the
// tie-break. Substring matching happens above this layer: SQLite's LIKE and
// lower() are ASCII-only, and the FAQ corpus is not.
func ListActiveEntries(ctx context.Context, db *gorm.DB, category string) ([]domain.KnowledgeEntry, error) {
	var out []domain.KnowledgeEntry
	q := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority DESC, id ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListEmbeddedEntries returns all active entries that carry an embedding.
func ListEmbeddedEntries(ctx context.Context, db *gorm.DB) ([]domain.KnowledgeEntry, error) {
	var out []domain.KnowledgeEntry
	err := db.WithContext(ctx).
		Where("is_active = ? AND embedding IS NOT NULL", true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// IncrementViews atomically bumps the view counter. The returned row count
// is 0 when the entry does not exist.
func IncrementViews(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.KnowledgeEntry{}).
		Where("id = ?", id).
		Update("views_count", gorm.Expr("views_count + 1"))
	return res.RowsAffected, res.Error
}

// IncrementHelpful atomically bumps the helpful counter.
func IncrementHelpful(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.KnowledgeEntry{}).
		Where("id = ?", id).
		Update("helpful_count", gorm.Expr("helpful_count + 1"))
	return res.RowsAffected, res.Error
}
