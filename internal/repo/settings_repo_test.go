package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

func TestUpsertWidgetConfig_CreatesThenPatches(t *testing.T) {
	db := newRepoDB(t, &domain.WidgetConfig{})
	ctx := context.Background()

	w, err := UpsertWidgetConfig(ctx, db, "default", map[string]any{
		"welcome_message": "hi",
		"bot_name":        "Bot",
	})
	if err != nil {
		t.Fatalf("create upsert: %v", err)
	}
	if w.Name != "default" || w.WelcomeMessage != "hi" || w.BotName != "Bot" {
		t.Fatalf("unexpected created widget: %+v", w)
	}
	if !w.IsActive {
		t.Fatalf("new widget must start active")
	}

	// Second call patches one field and leaves the rest alone.
	w2, err := UpsertWidgetConfig(ctx, db, "default", map[string]any{
		"bot_name": "Helper",
	})
	if err != nil {
		t.Fatalf("patch upsert: %v", err)
	}
	if w2.ID != w.ID {
		t.Fatalf("upsert must reuse the row: %d vs %d", w.ID, w2.ID)
	}
	if w2.BotName != "Helper" || w2.WelcomeMessage != "hi" {
		t.Fatalf("partial update went wrong: %+v", w2)
	}
}

func TestUpsertWidgetConfig_EmptyMaskStillCreates(t *testing.T) {
	db := newRepoDB(t, &domain.WidgetConfig{})

	w, err := UpsertWidgetConfig(context.Background(), db, "bare", nil)
	if err != nil {
		t.Fatalf("UpsertWidgetConfig: %v", err)
	}
	if w.ID == 0 || w.Name != "bare" {
		t.Fatalf("expected created row, got %+v", w)
	}
}

func TestUpsertWidgetConfig_BusinessHoursRoundTrip(t *testing.T) {
	db := newRepoDB(t, &domain.WidgetConfig{})

	hours := domain.BusinessHours{"monday": "09:00-18:00"}
	if _, err := UpsertWidgetConfig(context.Background(), db, "default", map[string]any{
		"business_hours": hours,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := GetWidgetConfig(context.Background(), db, "default")
	if err != nil {
		t.Fatalf("GetWidgetConfig: %v", err)
	}
	if got.BusinessHours["monday"] != "09:00-18:00" {
		t.Fatalf("business hours did not round-trip: %+v", got.BusinessHours)
	}
}

func TestGetWidgetConfig_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.WidgetConfig{})
	if _, err := GetWidgetConfig(context.Background(), db, "nope"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUpsertContext_InsertThenOverwrite(t *testing.T) {
	db := newRepoDB(t, &domain.ContextEntry{})
	ctx := context.Background()

	if err := UpsertContext(ctx, db, "greeting", "hello", "ui"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	e, err := GetContext(ctx, db, "greeting")
	if err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if e.Value != "hello" || e.Category != "ui" {
		t.Fatalf("unexpected entry: %+v", e)
	}

	if err := UpsertContext(ctx, db, "greeting", "hi there", "ui"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	e2, err := GetContext(ctx, db, "greeting")
	if err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if e2.ID != e.ID {
		t.Fatalf("overwrite must not create a second row")
	}
	if e2.Value != "hi there" {
		t.Fatalf("expected updated value, got %q", e2.Value)
	}

	var total int64
	if err := db.Model(&domain.ContextEntry{}).Count(&total).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected exactly one row, got %d", total)
	}
}

func TestGetContext_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.ContextEntry{})
	if _, err := GetContext(context.Background(), db, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
