// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"time"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

// CreateMessage inserts a new message row. The auto-increment ID assigned by
// the engine is the insertion-order tie-break for listing.
func CreateMessage(db *gorm.DB, sessionID uint, role, content string, tokensUsed *int) (*domain.Message, error) {
	m := &domain.Message{
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
		TokensUsed: tokensUsed,
		Timestamp:  time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// ListMessages returns a session's messages ordered deterministically
// (Timestamp ASC, ID ASC).
func ListMessages(db *gorm.DB, sessionID uint, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.Where("session_id = ?", sessionID).Order("timestamp ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMessages issues a raw COUNT so a missing messages table surfaces as
// a query error rather than a zero total.
func CountMessages(db *gorm.DB, sessionID uint) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE session_id = ?", sessionID).Scan(&total).Error
	return total, err
}

// ListMessagesPage returns a paginated slice ordered (Timestamp ASC, ID ASC).
func ListMessagesPage(db *gorm.DB, sessionID uint, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
