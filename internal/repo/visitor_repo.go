// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Visitor
// model.
//
// All functions accept a *gorm.DB handle, making them safe for use within
// transactions or connection-scoped operations. They follow the "thin
// repository" approach: no business logic, only CRUD persistence and query
// composition.
//
// Error semantics:
//   - When a visitor is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateVisitor inserts a new visitor row. FirstVisit and LastVisit are both
// set to the same UTC instant.
func CreateVisitor(ctx context.Context, db *gorm.DB, v *domain.Visitor) error {
	now := time.Now().UTC()
	v.FirstVisit = now
	v.LastVisit = now
	return db.WithContext(ctx).Create(v).Error
}

// GetVisitorByToken fetches a visitor by its public VisitorID. Returns
// ErrNotFound if no such visitor exists.
func GetVisitorByToken(ctx context.Context, db *gorm.DB, visitorID string) (*domain.Visitor, error) {
	var v domain.Visitor
	if err := db.WithContext(ctx).Where("visitor_id = ?", visitorID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVisitor fetches a visitor by surrogate ID.
func GetVisitor(ctx context.Context, db *gorm.DB, id uint) (*domain.Visitor, error) {
	var v domain.Visitor
	if err := db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// TouchVisitor stamps last_visit for the given visitor row. Returns
// ErrNotFound when the row is missing.
func TouchVisitor(ctx context.Context, db *gorm.DB, id uint, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Visitor{}).
		Where("id = ?", id).
		Update("last_visit", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteVisitor removes a visitor together with its sessions and their
// messages, all inside one transaction. Cascades flow outward only: the
// visitor owns sessions, sessions own messages.
func DeleteVisitor(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessionIDs []uint
		if err := tx.Model(&domain.Session{}).
			Where("visitor_id = ?", id).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if len(sessionIDs) > 0 {
			if err := tx.Where("session_id IN ?", sessionIDs).
				Delete(&domain.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", sessionIDs).
				Delete(&domain.Session{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Visitor{}, id).Error
	})
}
