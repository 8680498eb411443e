// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Session
// model, including the application-level cascade delete of owned messages.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

// CreateSession inserts a new session row. The caller supplies the unique
// token; IsActive starts true and EndedAt unset.
func CreateSession(ctx context.Context, db *gorm.DB, s *domain.Session) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.IsActive = true
	s.EndedAt = nil
	return db.WithContext(ctx).Create(s).Error
}

// GetSession fetches a session by ID. Returns ErrNotFound if missing.
func GetSession(ctx context.Context, db *gorm.DB, id uint) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSessionByToken fetches a session by its unique token.
func GetSessionByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).Where("token = ?", token).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// EndSession marks a session inactive and stamps ended_at, optionally
// recording a satisfaction rating. Only still-active rows are updated, so a
// second call is a no-op and never moves ended_at (RowsAffected reports 0).
func EndSession(ctx context.Context, db *gorm.DB, id uint, rating *int) (int64, error) {
	now := time.Now().UTC()
	fields := map[string]any{
		"is_active":  false,
		"ended_at":   now,
		"updated_at": now,
	}
	if rating != nil {
		fields["satisfaction_rating"] = *rating
	}
	res := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// SessionExists reports whether a session row with the given ID exists.
func SessionExists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

// DeleteSession removes a session and its messages inside one transaction
// (messages first, then the session row). The owning visitor/user rows are
// left untouched.
func DeleteSession(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Session{}, id).Error
	})
}
