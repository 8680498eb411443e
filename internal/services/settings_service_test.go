package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestSetWidgetConfig_CreatesWithDefaults(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	ctx := context.Background()

	w, err := svc.SetWidgetConfig(ctx, "default", WidgetUpdate{
		WelcomeMessage: strp("Здравствуйте!"),
		BotName:        strp("Помощник"),
	})
	if err != nil {
		t.Fatalf("SetWidgetConfig: %v", err)
	}
	if w.Name != "default" || w.WelcomeMessage != "Здравствуйте!" || w.BotName != "Помощник" {
		t.Fatalf("unexpected widget: %+v", w)
	}
	if !w.IsActive {
		t.Fatalf("new widget must start active")
	}
}

func TestSetWidgetConfig_MaskedFieldsOnly(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	ctx := context.Background()

	if _, err := svc.SetWidgetConfig(ctx, "default", WidgetUpdate{
		WelcomeMessage: strp("hello"),
		PrimaryColor:   strp("#4CAF50"),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Only the color moves; the welcome message must stay put.
	w, err := svc.SetWidgetConfig(ctx, "default", WidgetUpdate{
		PrimaryColor: strp("#FF0000"),
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if w.PrimaryColor != "#FF0000" || w.WelcomeMessage != "hello" {
		t.Fatalf("mask leaked into unrelated fields: %+v", w)
	}
}

func TestSetWidgetConfig_DeactivateAndHours(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	ctx := context.Background()

	w, err := svc.SetWidgetConfig(ctx, "default", WidgetUpdate{
		IsActive:      boolp(false),
		BusinessHours: domain.BusinessHours{"friday": "10:00-16:00"},
	})
	if err != nil {
		t.Fatalf("SetWidgetConfig: %v", err)
	}
	if w.IsActive {
		t.Fatalf("expected deactivated widget")
	}
	if w.BusinessHours["friday"] != "10:00-16:00" {
		t.Fatalf("business hours missing: %+v", w.BusinessHours)
	}
}

func TestSetWidgetConfig_EmptyNameIsValidation(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	if _, err := svc.SetWidgetConfig(context.Background(), "  ", WidgetUpdate{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGetWidgetConfig_NotFound(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	if _, err := svc.GetWidgetConfig(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContext_SetGetOverwrite(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	ctx := context.Background()

	if err := svc.SetContext(ctx, "company_name", "Acme", "branding"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	v, found, err := svc.GetContext(ctx, "company_name")
	if err != nil || !found || v != "Acme" {
		t.Fatalf("expected (Acme, true, nil), got (%q, %v, %v)", v, found, err)
	}

	if err := svc.SetContext(ctx, "company_name", "Acme Corp", "branding"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err = svc.GetContext(ctx, "company_name")
	if err != nil || !found || v != "Acme Corp" {
		t.Fatalf("expected overwritten value, got (%q, %v, %v)", v, found, err)
	}
}

func TestGetContext_AbsenceIsNotAnError(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	v, found, err := svc.GetContext(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if found || v != "" {
		t.Fatalf("expected (\"\", false), got (%q, %v)", v, found)
	}
}

func TestSetContext_EmptyKeyIsValidation(t *testing.T) {
	svc := &SettingsService{DB: newServiceDB(t)}
	if err := svc.SetContext(context.Background(), " ", "v", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
