// Package services – SettingsService
//
// This file implements SettingsService, the config store: key/value context
// entries and named widget configurations, both upsert-by-natural-key.
//
// Widget updates go through an explicit field mask (WidgetUpdate) instead
// of a dynamic field bag: a nil pointer means "leave the column alone", and
// a field the store does not know about cannot be expressed at all, which
// is how schema drift between a configuration UI and this store stays
// harmless.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
	"github.com/sigmalab/assistant-backend/internal/repo"
)

// SettingsService implements the config store use-cases.
type SettingsService struct {
	DB *gorm.DB
}

// WidgetUpdate enumerates the updatable widget columns. Nil fields are
// skipped by the upsert.
type WidgetUpdate struct {
	WelcomeMessage  *string
	PlaceholderText *string
	BotName         *string
	BotAvatarURL    *string
	PrimaryColor    *string
	Position        *string
	AutoOpenDelay   *int
	OfflineMessage  *string
	IsActive        *bool
	BusinessHours   domain.BusinessHours
}

// fields flattens the mask into the column map the repo layer consumes.
func (u WidgetUpdate) fields() map[string]any {
	out := map[string]any{}
	if u.WelcomeMessage != nil {
		out["welcome_message"] = *u.WelcomeMessage
	}
	if u.PlaceholderText != nil {
		out["placeholder_text"] = *u.PlaceholderText
	}
	if u.BotName != nil {
		out["bot_name"] = *u.BotName
	}
	if u.BotAvatarURL != nil {
		out["bot_avatar_url"] = *u.BotAvatarURL
	}
	if u.PrimaryColor != nil {
		out["primary_color"] = *u.PrimaryColor
	}
	if u.Position != nil {
		out["position"] = *u.Position
	}
	if u.AutoOpenDelay != nil {
		out["auto_open_delay"] = *u.AutoOpenDelay
	}
	if u.OfflineMessage != nil {
		out["offline_message"] = *u.OfflineMessage
	}
	if u.IsActive != nil {
		out["is_active"] = *u.IsActive
	}
	if u.BusinessHours != nil {
		out["business_hours"] = u.BusinessHours
	}
	return out
}

// SetWidgetConfig upserts the widget row named name: existing rows get the
// masked fields and a fresh updated_at, missing rows are created first.
// Returns the resulting row.
func (s *SettingsService) SetWidgetConfig(ctx context.Context, name string, upd WidgetUpdate) (*domain.WidgetConfig, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: widget name is empty", ErrValidation)
	}
	w, err := repo.UpsertWidgetConfig(ctx, s.DB, name, upd.fields())
	if err != nil {
		return nil, storageErr(err)
	}
	return w, nil
}

// GetWidgetConfig returns the widget row named name, or ErrNotFound.
func (s *SettingsService) GetWidgetConfig(ctx context.Context, name string) (*domain.WidgetConfig, error) {
	w, err := repo.GetWidgetConfig(ctx, s.DB, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: widget %q", ErrNotFound, name)
		}
		return nil, storageErr(err)
	}
	return w, nil
}

// SetContext upserts value (and category) under key.
func (s *SettingsService) SetContext(ctx context.Context, key, value, category string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: context key is empty", ErrValidation)
	}
	if err := repo.UpsertContext(ctx, s.DB, key, value, category); err != nil {
		return storageErr(err)
	}
	return nil
}

// GetContext returns the value stored under key. Absence is reported as
// ("", false, nil), not as an error, matching the lookup-style contract.
func (s *SettingsService) GetContext(ctx context.Context, key string) (string, bool, error) {
	e, err := repo.GetContext(ctx, s.DB, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, storageErr(err)
	}
	return e.Value, true, nil
}
