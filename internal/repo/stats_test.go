package repo

import (
	"context"
	"testing"
	"time"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

func TestKnowledgeStats_EmptyTable(t *testing.T) {
	db := newRepoDB(t, &domain.KnowledgeEntry{})
	count, maxAt, err := KnowledgeStats(context.Background(), db)
	if err != nil {
		t.Fatalf("KnowledgeStats: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestKnowledgeStats_CountsActiveOnly(t *testing.T) {
	db := newRepoDB(t, &domain.KnowledgeEntry{})

	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)
	rows := []domain.KnowledgeEntry{
		{Question: "a", Answer: "a", IsActive: true, UpdatedAt: older},
		{Question: "b", Answer: "b", IsActive: true, UpdatedAt: newer},
		{Question: "c", Answer: "c", IsActive: false, UpdatedAt: newer.Add(time.Hour)},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	count, maxAt, err := KnowledgeStats(context.Background(), db)
	if err != nil {
		t.Fatalf("KnowledgeStats: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 active entries, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(newer) {
		t.Fatalf("expected max updated_at %v, got %v", newer, maxAt)
	}
}

func TestSessionStats_PerVisitor(t *testing.T) {
	db := newRepoDB(t, &domain.Session{})

	v1, v2 := uint(1), uint(2)
	rows := []domain.Session{
		{VisitorID: &v1, Token: "s-1"},
		{VisitorID: &v1, Token: "s-2"},
		{VisitorID: &v2, Token: "s-3"},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	count, maxAt, err := SessionStats(context.Background(), db, v1)
	if err != nil {
		t.Fatalf("SessionStats: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 sessions for visitor 1, got %d", count)
	}
	if maxAt == nil {
		t.Fatalf("expected a max updated_at for a non-empty visitor")
	}
}
