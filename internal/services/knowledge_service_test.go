package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/sigmalab/assistant-backend/internal/domain"
)

func seedFAQ(t *testing.T, svc *KnowledgeService) (orderID, paymentID, deliveryID uint) {
	t.Helper()
	ctx := context.Background()

	orderID, err := svc.AddEntry(ctx, AddEntryInput{
		Question: "Как оформить заказ?",
		Answer:   "Добавьте товары в корзину и оформите заказ.",
		Category: "orders",
		Keywords: "заказ",
	})
	if err != nil {
		t.Fatalf("seed order entry: %v", err)
	}
	paymentID, err = svc.AddEntry(ctx, AddEntryInput{
		Question: "Способы оплаты?",
		Answer:   "Карты, кошельки, наличные.",
		Category: "payment",
		Keywords: "оплата",
	})
	if err != nil {
		t.Fatalf("seed payment entry: %v", err)
	}
	deliveryID, err = svc.AddEntry(ctx, AddEntryInput{
		Question: "Сроки доставки?",
		Answer:   "1-7 дней в зависимости от региона.",
		Category: "delivery",
		Keywords: "доставка",
	})
	if err != nil {
		t.Fatalf("seed delivery entry: %v", err)
	}
	return orderID, paymentID, deliveryID
}

func TestAddEntry_RoundTripDefaults(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	id, err := svc.AddEntry(ctx, AddEntryInput{Question: "q", Answer: "a", Category: "c", Keywords: "k"})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	e, err := svc.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if !e.IsActive || e.Priority != 0 || e.ViewsCount != 0 || e.HelpfulCount != 0 {
		t.Fatalf("new entry defaults wrong: %+v", e)
	}
	if e.Embedding != nil {
		t.Fatalf("expected no embedding, got %v", e.Embedding)
	}
}

func TestAddEntry_Validation(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	if _, err := svc.AddEntry(ctx, AddEntryInput{Question: " ", Answer: "a"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank question: expected ErrValidation, got %v", err)
	}
	if _, err := svc.AddEntry(ctx, AddEntryInput{Question: "q", Answer: ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty answer: expected ErrValidation, got %v", err)
	}
}

func TestAddEntry_PinnedDimensionEnforced(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t), EmbeddingDim: 3}
	ctx := context.Background()

	if _, err := svc.AddEntry(ctx, AddEntryInput{
		Question: "q", Answer: "a", Embedding: domain.Vector{1, 2},
	}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}

	// Matching dimension and no embedding at all are both fine.
	if _, err := svc.AddEntry(ctx, AddEntryInput{
		Question: "q", Answer: "a", Embedding: domain.Vector{1, 2, 3},
	}); err != nil {
		t.Fatalf("matching dimension: %v", err)
	}
	if _, err := svc.AddEntry(ctx, AddEntryInput{Question: "q2", Answer: "a"}); err != nil {
		t.Fatalf("embedding-free entry: %v", err)
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	if _, err := svc.GetEntry(context.Background(), 1234); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchLexical_CyrillicCaseInsensitive(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	_, paymentID, _ := seedFAQ(t, svc)

	got, err := svc.SearchLexical(context.Background(), "ОПЛАТА", "", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(got) != 1 || got[0].ID != paymentID {
		t.Fatalf("expected only the payment entry, got %+v", got)
	}
}

func TestSearchLexical_MatchesKeywordsToo(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	orderID, _, _ := seedFAQ(t, svc)

	// "заказ" appears in both the question and the keywords of the order
	// entry and nowhere else.
	got, err := svc.SearchLexical(context.Background(), "заказ", "", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(got) != 1 || got[0].ID != orderID {
		t.Fatalf("expected only the order entry, got %+v", got)
	}
}

func TestSearchLexical_CategoryFilterAndLimit(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	seedFAQ(t, svc)

	// Empty query matches everything; the category narrows it down.
	got, err := svc.SearchLexical(context.Background(), "", "delivery", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(got) != 1 || got[0].Category != "delivery" {
		t.Fatalf("expected one delivery entry, got %+v", got)
	}

	capped, err := svc.SearchLexical(context.Background(), "", "", 2)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected limit to cap results at 2, got %d", len(capped))
	}
}

func TestSearchLexical_NoMatchesIsEmptyNotError(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	seedFAQ(t, svc)

	got, err := svc.SearchLexical(context.Background(), "возврат", "", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestSearchLexical_ExcludesInactive(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	id, err := svc.AddEntry(ctx, AddEntryInput{Question: "скрытый вопрос", Answer: "a"})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if err := svc.DB.Model(&domain.KnowledgeEntry{}).Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := svc.SearchLexical(ctx, "скрытый", "", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("inactive entry leaked into search: %+v", got)
	}
}

func TestSearchVector_TopMatchIsIdentity(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	a, err := svc.AddEntry(ctx, AddEntryInput{Question: "a", Answer: "a", Embedding: domain.Vector{1, 0, 0}})
	if err != nil {
		t.Fatalf("AddEntry a: %v", err)
	}
	if _, err := svc.AddEntry(ctx, AddEntryInput{Question: "b", Answer: "b", Embedding: domain.Vector{0, 1, 0}}); err != nil {
		t.Fatalf("AddEntry b: %v", err)
	}
	if _, err := svc.AddEntry(ctx, AddEntryInput{Question: "plain", Answer: "c"}); err != nil {
		t.Fatalf("AddEntry plain: %v", err)
	}

	got, err := svc.SearchVector(ctx, domain.Vector{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("SearchVector: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 embedding-bearing results, got %d", len(got))
	}
	if got[0].Entry.ID != a {
		t.Fatalf("expected identity entry first, got %+v", got[0])
	}
	if math.Abs(got[0].Score-1.0) > 1e-9 {
		t.Fatalf("identity score should be ~1.0, got %v", got[0].Score)
	}
	if got[0].Score < got[1].Score {
		t.Fatalf("scores not descending: %v < %v", got[0].Score, got[1].Score)
	}
}

func TestSearchVector_LimitApplies(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.AddEntry(ctx, AddEntryInput{
			Question: "q", Answer: "a",
			Embedding: domain.Vector{float32(i + 1), 1},
		}); err != nil {
			t.Fatalf("AddEntry %d: %v", i, err)
		}
	}

	got, err := svc.SearchVector(ctx, domain.Vector{1, 1}, 2)
	if err != nil {
		t.Fatalf("SearchVector: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}

func TestSearchVector_DimensionMismatch(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	if _, err := svc.AddEntry(ctx, AddEntryInput{Question: "q", Answer: "a", Embedding: domain.Vector{1, 0}}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := svc.SearchVector(ctx, domain.Vector{1, 0, 0}, 5); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSearchVector_EmptyQueryIsValidation(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	if _, err := svc.SearchVector(context.Background(), nil, 5); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSearchVector_EmptyCorpusIsEmptyResult(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	got, err := svc.SearchVector(context.Background(), domain.Vector{1, 2}, 5)
	if err != nil {
		t.Fatalf("SearchVector: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results over empty corpus, got %+v", got)
	}
}

func TestRecordView_ConcurrentBumpsAllLand(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	id, err := svc.AddEntry(ctx, AddEntryInput{Question: "q", Answer: "a"})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			errs <- svc.RecordView(ctx, id)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	e, err := svc.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.ViewsCount != n {
		t.Fatalf("expected %d views, got %d (lost update)", n, e.ViewsCount)
	}
}

func TestStats_TracksActiveCorpus(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	ctx := context.Background()

	count, maxAt, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats on empty corpus: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}

	seedFAQ(t, svc)
	count, maxAt, err = svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 3 || maxAt == nil {
		t.Fatalf("expected (3, non-nil), got (%d, %v)", count, maxAt)
	}
}

func TestRecordHelpful_MissingIDIsSilent(t *testing.T) {
	svc := &KnowledgeService{DB: newServiceDB(t)}
	if err := svc.RecordHelpful(context.Background(), 9999); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}
