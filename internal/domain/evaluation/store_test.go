package evaluation

import (
	"context"
	"errors"
	"testing"
)

func TestStoreMalformedIDsMatchNothing(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if _, err := store.GrowthCoefficient(ctx, "t1", "g1"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("growth coefficient: expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := store.GetPeriod(ctx, "t1", "abc"); !errors.Is(err, ErrPeriodNotFound) {
		t.Fatalf("get period: expected ErrPeriodNotFound, got %v", err)
	}
	if _, err := store.SetPeriodStatus(ctx, "t1", "abc", PeriodStatusActive); !errors.Is(err, ErrPeriodNotFound) {
		t.Fatalf("set status: expected ErrPeriodNotFound, got %v", err)
	}
	if _, err := store.GetEvaluation(ctx, "t1", "ev-1"); !errors.Is(err, ErrEvaluationNotFound) {
		t.Fatalf("get evaluation: expected ErrEvaluationNotFound, got %v", err)
	}
	if _, err := store.GetSheetRow(ctx, "t1", ""); !errors.Is(err, ErrEvaluationNotFound) {
		t.Fatalf("sheet row: expected ErrEvaluationNotFound, got %v", err)
	}
	if err := store.DeleteGrowthCategory(ctx, "t1", "nope"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("delete category: expected ErrCategoryNotFound, got %v", err)
	}
}

func TestSaveDraftMalformedGrowthCategoryScoresZero(t *testing.T) {
	svc, _ := seededService(PeriodStatusActive)
	in := fullInput()
	in.Growth.CategoryID = "g1"
	ev, err := svc.SaveDraft(context.Background(), "t1", "ev1", Actor{UserID: "u-eval", EmployeeID: "e-eval"}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Scores.Growth != 0 || ev.Scores.Complete {
		t.Fatalf("expected growth 0 and an incomplete record, got %+v", ev.Scores)
	}
}
