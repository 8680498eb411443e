// Package search provides the retrieval primitives of the knowledge base:
// exact cosine-similarity ranking over stored embeddings and Unicode-aware
// case folding for substring matching. It is intentionally small and
// engineered with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - No persistence dependency; callers hand in plain candidates
//   - Deterministic scoring and sorting (stable order for ties)
//   - Linear exact scan, sized for FAQ corpora (hundreds to low thousands)
//
// Scoring uses cosine similarity: score = dot(a,b) / (‖a‖·‖b‖). A zero-norm
// vector scores 0 rather than dividing by zero.
package search

import (
	"errors"
	"math"
	"sort"
)

// ErrDimensionMismatch is returned when a query vector's length differs from
// the dimension of the stored vectors being ranked.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Candidate is one embedding-bearing row eligible for ranking.
type Candidate struct {
	ID        uint
	Priority  int
	Embedding []float32
}

// Match is a ranked candidate with its similarity score.
type Match struct {
	ID    uint
	Score float64
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. Vectors of
// unequal length or zero norm yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RankBySimilarity scores every candidate against query and returns the
// top-k matches ordered by descending similarity. Ties break by descending
// priority, then ascending ID, so repeated runs over the same corpus return
// the same order.
//
// All stored vectors share one fixed dimension per deployment; a query of a
// different length is a caller error (ErrDimensionMismatch), never silently
// truncated or padded. Candidates without an embedding are skipped.
func RankBySimilarity(query []float32, cands []Candidate, k int) ([]Match, error) {
	if k <= 0 {
		return []Match{}, nil
	}

	type scored struct {
		Match
		priority int
	}
	out := make([]scored, 0, len(cands))
	for _, c := range cands {
		if len(c.Embedding) == 0 {
			continue
		}
		if len(c.Embedding) != len(query) {
			return nil, ErrDimensionMismatch
		}
		out = append(out, scored{
			Match:    Match{ID: c.ID, Score: Cosine(query, c.Embedding)},
			priority: c.Priority,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].priority != out[j].priority {
			return out[i].priority > out[j].priority
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > k {
		out = out[:k]
	}
	res := make([]Match, len(out))
	for i, s := range out {
		res[i] = s.Match
	}
	return res, nil
}
