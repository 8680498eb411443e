// Knowledge base HTTP handlers.
//
// This file exposes REST endpoints for the FAQ store and its two retrieval
// strategies:
//   - POST /knowledge                  (add an entry)
//   - GET  /knowledge/{id}             (read one entry by id, active or not)
//   - GET  /knowledge/stats            (active count + newest update time)
//   - GET  /knowledge/search           (lexical substring search)
//   - POST /knowledge/search/vector    (cosine ranking over embeddings)
//   - POST /knowledge/{id}/view        (bump view counter)
//   - POST /knowledge/{id}/helpful     (bump helpful counter)
//
// Lexical and vector search stay separate endpoints on purpose: their
// relevance semantics differ, and merging them server-side would hide the
// ranking decision from the caller.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sigmalab/assistant-backend/internal/domain"
	"github.com/sigmalab/assistant-backend/internal/services"
	"github.com/sigmalab/assistant-backend/internal/utils"
)

//
// DTOs
//

// AddEntryRequest is the JSON payload for a new FAQ entry. The embedding,
// when present, must match the deployment's fixed dimension.
type AddEntryRequest struct {
	Question  string        `json:"question" binding:"required,min=1"`
	Answer    string        `json:"answer"   binding:"required,min=1"`
	Category  string        `json:"category"`
	Keywords  string        `json:"keywords"`
	Embedding domain.Vector `json:"embedding"`
}

// VectorSearchRequest is the JSON payload for semantic search.
type VectorSearchRequest struct {
	Embedding domain.Vector `json:"embedding" binding:"required"`
	Limit     int           `json:"limit"`
}

// VectorSearchResult pairs one entry with its similarity score.
type VectorSearchResult struct {
	Entry domain.KnowledgeEntry `json:"entry"`
	Score float64               `json:"score"`
}

//
// Handlers
//

// AddEntry inserts a new FAQ entry and returns its ID.
func (h *Handler) AddEntry(c *gin.Context) {
	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question and answer are required")
		return
	}
	id, err := h.Knowledge.AddEntry(c.Request.Context(), services.AddEntryInput{
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		Keywords:  req.Keywords,
		Embedding: req.Embedding,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": id})
}

// GetEntry reads one entry by ID. Inactive entries remain readable here
// even though search excludes them.
func (h *Handler) GetEntry(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	e, err := h.Knowledge.GetEntry(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// SearchLexical answers ?q=&category=&limit= with active entries whose
// question or keywords contain q (case-insensitive), priority-ordered. An
// empty q matches everything; no matches is an empty list, not an error.
func (h *Handler) SearchLexical(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	entries, err := h.Knowledge.SearchLexical(c.Request.Context(), c.Query("q"), c.Query("category"), limit)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"results": entries})
}

// SearchVector ranks embedding-bearing entries against the query embedding
// and returns (entry, score) pairs in descending similarity order.
func (h *Handler) SearchVector(c *gin.Context) {
	var req VectorSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "embedding is required")
		return
	}
	scored, err := h.Knowledge.SearchVector(c.Request.Context(), req.Embedding, req.Limit)
	if err != nil {
		failFromService(c, err)
		return
	}
	out := make([]VectorSearchResult, len(scored))
	for i, s := range scored {
		out[i] = VectorSearchResult{Entry: s.Entry, Score: s.Score}
	}
	ok(c, http.StatusOK, gin.H{"results": out})
}

// KnowledgeStats reports the active entry count and the newest update time,
// a cheap change detector for clients caching the corpus.
func (h *Handler) KnowledgeStats(c *gin.Context) {
	count, maxAt, err := h.Knowledge.Stats(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"count": count, "updated_at": maxAt})
}

// RecordView bumps the view counter. Unknown IDs still answer 204; the
// increment may race against a concurrent delete.
func (h *Handler) RecordView(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := h.Knowledge.RecordView(c.Request.Context(), id); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// RecordHelpful bumps the helpful counter, same contract as RecordView.
func (h *Handler) RecordHelpful(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := h.Knowledge.RecordHelpful(c.Request.Context(), id); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
