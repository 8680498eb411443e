package search

import "testing"

func TestContainsFold_ASCII(t *testing.T) {
	if !ContainsFold("How to Place an Order?", "ORDER") {
		t.Fatalf("expected case-insensitive ASCII match")
	}
	if ContainsFold("How to Place an Order?", "refund") {
		t.Fatalf("unexpected match for absent needle")
	}
}

func TestContainsFold_Cyrillic(t *testing.T) {
	// strings.ToLower-based matching would pass here too, but SQLite's
	// lower()/LIKE would not; this is the case folding the store relies on.
	if !ContainsFold("Способы ОПЛАТЫ?", "оплаты") {
		t.Fatalf("expected case-folded Cyrillic match")
	}
	if !ContainsFold("доставка", "ДОСТАВКА") {
		t.Fatalf("expected fold to apply to the needle as well")
	}
}

func TestContainsFold_EmptyNeedle_MatchesEverything(t *testing.T) {
	if !ContainsFold("anything", "") {
		t.Fatalf("empty needle must match")
	}
	if !ContainsFold("", "") {
		t.Fatalf("empty needle must match empty haystack")
	}
}

func TestContainsFold_EmptyHaystack(t *testing.T) {
	if ContainsFold("", "x") {
		t.Fatalf("non-empty needle cannot match empty haystack")
	}
}
