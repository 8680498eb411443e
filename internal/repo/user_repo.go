// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

// CreateUser inserts a new user row. Uniqueness of username and email is
// enforced by the schema; violations surface as raw driver errors for the
// service layer to translate.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	u.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by ID. Returns ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by its unique username.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
