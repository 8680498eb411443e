// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for WidgetConfig
// and ContextEntry, both upsert-by-natural-key.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

// GetWidgetConfig fetches a widget configuration by its unique name.
func GetWidgetConfig(ctx context.Context, db *gorm.DB, name string) (*domain.WidgetConfig, error) {
	var w domain.WidgetConfig
	if err := db.WithContext(ctx).Where("name = ?", name).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// UpsertWidgetConfig updates the listed fields of the widget row named name,
// creating the row first when absent. The whole read-or-create-then-update
// runs in one transaction. fields holds only columns the caller wants
// changed; updated_at is stamped on every call.
func UpsertWidgetConfig(ctx context.Context, db *gorm.DB, name string, fields map[string]any) (*domain.WidgetConfig, error) {
	var w domain.WidgetConfig
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&w).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			w = domain.WidgetConfig{
				Name:      name,
				IsActive:  true,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.Create(&w).Error; err != nil {
				return err
			}
		}
		if len(fields) == 0 {
			return nil
		}
		fields["updated_at"] = time.Now().UTC()
		if err := tx.Model(&w).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", name).First(&w).Error
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetContext fetches a context entry by its unique key.
func GetContext(ctx context.Context, db *gorm.DB, key string) (*domain.ContextEntry, error) {
	var e domain.ContextEntry
	if err := db.WithContext(ctx).Where("key = ?", key).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertContext writes value (and category) under key, inserting the row if
// absent and updating it otherwise, in one transaction.
func UpsertContext(ctx context.Context, db *gorm.DB, key, value, category string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		var e domain.ContextEntry
		err := tx.Where("key = ?", key).First(&e).Error
		if err == nil {
			return tx.Model(&e).Updates(map[string]any{
				"value":      value,
				"category":   category,
				"updated_at": now,
			}).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		e = domain.ContextEntry{
			Key:       key,
			Value:     value,
			Category:  category,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&e).Error
	})
}
