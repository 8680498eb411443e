// Package services – KnowledgeService
//
// This file implements KnowledgeService, the application-level component
// that owns the FAQ knowledge base. It validates inputs, persists entries,
// and exposes the two retrieval strategies: lexical substring matching and
// exact cosine ranking over stored embeddings.
//
// The two strategies are deliberately separate operations over the same
// entity set. Their relevance semantics are incompatible (substring match
// vs. similarity score), so callers compose them — typically vector first,
// lexical fallback — instead of this service silently merging results and
// hiding ranking decisions.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// query metadata where it is bounded (never the raw embedding).
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sigmalab/assistant-backend/internal/domain"
	"github.com/sigmalab/assistant-backend/internal/repo"
	"github.com/sigmalab/assistant-backend/internal/search"
)

// defaultSearchLimit caps result sets when the caller does not say.
const defaultSearchLimit = 5

// KnowledgeService coordinates FAQ persistence and retrieval.
type KnowledgeService struct {
	DB *gorm.DB

	// EmbeddingDim, when > 0, enforces the deployment's fixed vector
	// dimension on writes. Queries are always checked against the stored
	// vectors regardless.
	EmbeddingDim int
}

// AddEntryInput carries the caller-supplied fields for a new FAQ entry.
// Category, Keywords, and Embedding are optional.
type AddEntryInput struct {
	Question  string
	Answer    string
	Category  string
	Keywords  string
	Embedding domain.Vector
}

// ScoredEntry pairs a knowledge entry with its vector similarity score.
type ScoredEntry struct {
	Entry domain.KnowledgeEntry
	Score float64
}

// AddEntry inserts a new active entry with priority 0 and zeroed counters,
// returning its ID. Empty question or answer is ErrValidation; an embedding
// of the wrong dimension (when the deployment pins one) is
// ErrDimensionMismatch.
func (s *KnowledgeService) AddEntry(ctx context.Context, in AddEntryInput) (uint, error) {
	tr := otel.Tracer("services/KnowledgeService")
	ctx, span := tr.Start(ctx, "AddEntry",
		trace.WithAttributes(attribute.String("kb.category", in.Category)),
	)
	defer span.End()

	if strings.TrimSpace(in.Question) == "" {
		return 0, fmt.Errorf("%w: question is empty", ErrValidation)
	}
	if strings.TrimSpace(in.Answer) == "" {
		return 0, fmt.Errorf("%w: answer is empty", ErrValidation)
	}
	if s.EmbeddingDim > 0 && in.Embedding != nil && in.Embedding.Dim() != s.EmbeddingDim {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, in.Embedding.Dim(), s.EmbeddingDim)
	}

	e := &domain.KnowledgeEntry{
		Question:  in.Question,
		Answer:    in.Answer,
		Category:  in.Category,
		Keywords:  in.Keywords,
		IsActive:  true,
		Embedding: in.Embedding,
	}
	if err := repo.CreateKnowledgeEntry(ctx, s.DB, e); err != nil {
		return 0, storageErr(err)
	}
	return e.ID, nil
}

// GetEntry fetches one entry by ID, active or not.
func (s *KnowledgeService) GetEntry(ctx context.Context, id uint) (*domain.KnowledgeEntry, error) {
	e, err := repo.GetKnowledgeEntry(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: knowledge entry %d", ErrNotFound, id)
		}
		return nil, storageErr(err)
	}
	return e, nil
}

// SearchLexical returns active entries whose question or keywords contain
// query as a case-insensitive substring, optionally filtered by category,
// ordered by descending priority and truncated to limit. An empty query
// matches everything; no matches is an empty slice, not an error.
func (s *KnowledgeService) SearchLexical(ctx context.Context, query, category string, limit int) ([]domain.KnowledgeEntry, error) {
	tr := otel.Tracer("services/KnowledgeService")
	ctx, span := tr.Start(ctx, "SearchLexical",
		trace.WithAttributes(
			attribute.String("kb.query", query),
			attribute.String("kb.category", category),
		),
	)
	defer span.End()

	if limit <= 0 {
		limit = defaultSearchLimit
	}

	entries, err := repo.ListActiveEntries(ctx, s.DB, category)
	if err != nil {
		return nil, storageErr(err)
	}

	out := make([]domain.KnowledgeEntry, 0, limit)
	for _, e := range entries {
		if search.ContainsFold(e.Question, query) || search.ContainsFold(e.Keywords, query) {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// SearchVector ranks every active, embedding-bearing entry against the
// query embedding by cosine similarity and returns the top-limit results in
// descending score order (ties: priority desc, ID asc). A query whose
// length differs from the stored dimension is ErrDimensionMismatch.
func (s *KnowledgeService) SearchVector(ctx context.Context, query domain.Vector, limit int) ([]ScoredEntry, error) {
	tr := otel.Tracer("services/KnowledgeService")
	ctx, span := tr.Start(ctx, "SearchVector",
		trace.WithAttributes(attribute.Int("kb.query_dim", query.Dim())),
	)
	defer span.End()

	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query embedding is empty", ErrValidation)
	}
	if s.EmbeddingDim > 0 && query.Dim() != s.EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, query.Dim(), s.EmbeddingDim)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	entries, err := repo.ListEmbeddedEntries(ctx, s.DB)
	if err != nil {
		return nil, storageErr(err)
	}

	cands := make([]search.Candidate, len(entries))
	byID := make(map[uint]domain.KnowledgeEntry, len(entries))
	for i, e := range entries {
		cands[i] = search.Candidate{ID: e.ID, Priority: e.Priority, Embedding: e.Embedding}
		byID[e.ID] = e
	}

	matches, err := search.RankBySimilarity(query, cands, limit)
	if err != nil {
		if errors.Is(err, search.ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: got %d", ErrDimensionMismatch, query.Dim())
		}
		return nil, err
	}

	out := make([]ScoredEntry, len(matches))
	for i, m := range matches {
		out[i] = ScoredEntry{Entry: byID[m.ID], Score: m.Score}
	}
	return out, nil
}

// Stats returns the number of active entries and the newest UpdatedAt among
// them (nil when the knowledge base is empty), so clients can detect corpus
// changes without re-fetching.
func (s *KnowledgeService) Stats(ctx context.Context) (int64, *time.Time, error) {
	count, maxAt, err := repo.KnowledgeStats(ctx, s.DB)
	if err != nil {
		return 0, nil, storageErr(err)
	}
	return count, maxAt, nil
}

// RecordView bumps the view counter for id. A missing id is a benign race
// (the entry may have just been deleted) and is silently ignored.
func (s *KnowledgeService) RecordView(ctx context.Context, id uint) error {
	if _, err := repo.IncrementViews(ctx, s.DB, id); err != nil {
		return storageErr(err)
	}
	return nil
}

// RecordHelpful bumps the helpful counter for id; missing ids are ignored,
// same as RecordView.
func (s *KnowledgeService) RecordHelpful(ctx context.Context, id uint) error {
	if _, err := repo.IncrementHelpful(ctx, s.DB, id); err != nil {
		return storageErr(err)
	}
	return nil
}

// storageErr folds a raw driver error into the service taxonomy.
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
