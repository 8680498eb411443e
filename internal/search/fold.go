package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder performs Unicode case folding. strings.ToLower is not enough for
// the multilingual FAQ corpora this store serves (e.g. Cyrillic questions),
// so matching goes through x/text. cases.Caser is not safe for concurrent
// use; fold constructs one per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether needle occurs in haystack under Unicode case
// folding. An empty needle matches everything (pass-through filter).
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(fold(haystack), fold(needle))
}
