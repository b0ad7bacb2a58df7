package evaluation

import (
	"errors"
	"testing"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{PeriodStatusDraft, PeriodStatusActive, true},
		{PeriodStatusActive, PeriodStatusReview, true},
		{PeriodStatusReview, PeriodStatusClosed, true},
		{PeriodStatusClosed, PeriodStatusReview, true},
		{PeriodStatusReview, PeriodStatusActive, true},
		{PeriodStatusActive, PeriodStatusDraft, true},
		{PeriodStatusDraft, PeriodStatusClosed, false},
		{PeriodStatusDraft, PeriodStatusReview, false},
		{PeriodStatusClosed, PeriodStatusDraft, false},
		{PeriodStatusActive, PeriodStatusActive, false},
		{PeriodStatusReview, "archived", false},
	}
	for _, tc := range tests {
		err := CheckTransition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
		}
	}
}

func TestCheckEvaluationWrite(t *testing.T) {
	evaluator := Actor{UserID: "u1"}
	hr := Actor{UserID: "u2", IsHR: true}

	if err := CheckEvaluationWrite(PeriodStatusDraft, Evaluation{Status: StatusDraft}, hr); !errors.Is(err, ErrPeriodLocked) {
		t.Fatalf("expected locked for draft period, got %v", err)
	}
	if err := CheckEvaluationWrite(PeriodStatusClosed, Evaluation{Status: StatusDraft}, hr); !errors.Is(err, ErrPeriodLocked) {
		t.Fatalf("expected locked for closed period, got %v", err)
	}
	if err := CheckEvaluationWrite(PeriodStatusActive, Evaluation{Status: StatusDraft}, evaluator); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckEvaluationWrite(PeriodStatusReview, Evaluation{Status: StatusSubmitted}, evaluator); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected evaluator blocked on submitted record, got %v", err)
	}
	if err := CheckEvaluationWrite(PeriodStatusReview, Evaluation{Status: StatusSubmitted}, hr); err != nil {
		t.Fatalf("expected hr to edit submitted record, got %v", err)
	}
	if err := CheckEvaluationWrite(PeriodStatusReview, Evaluation{Status: StatusConfirmed}, hr); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected confirmed record to be read-only, got %v", err)
	}
}

func TestSubmitConfirmReopen(t *testing.T) {
	if err := CheckSubmit(PeriodStatusActive, Evaluation{Status: StatusDraft}); err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}
	if err := CheckSubmit(PeriodStatusActive, Evaluation{Status: StatusSubmitted}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected double submit to fail, got %v", err)
	}
	if err := CheckConfirm(PeriodStatusActive, Evaluation{Status: StatusSubmitted}); !errors.Is(err, ErrPeriodLocked) {
		t.Fatalf("expected confirm outside review to fail, got %v", err)
	}
	if err := CheckConfirm(PeriodStatusReview, Evaluation{Status: StatusSubmitted}); err != nil {
		t.Fatalf("unexpected confirm error: %v", err)
	}
	if err := CheckReopen(PeriodStatusClosed, Evaluation{Status: StatusConfirmed}); !errors.Is(err, ErrPeriodLocked) {
		t.Fatalf("expected reopen in closed period to fail, got %v", err)
	}
	if err := CheckReopen(PeriodStatusReview, Evaluation{Status: StatusConfirmed}); err != nil {
		t.Fatalf("unexpected reopen error: %v", err)
	}
}

func TestConfirmAndReopenByPeriodStatus(t *testing.T) {
	cases := []struct {
		period  string
		confirm error
		reopen  error
	}{
		{PeriodStatusDraft, ErrPeriodLocked, nil},
		{PeriodStatusActive, ErrPeriodLocked, nil},
		{PeriodStatusReview, nil, nil},
		{PeriodStatusClosed, ErrPeriodLocked, ErrPeriodLocked},
	}
	for _, tc := range cases {
		t.Run(tc.period, func(t *testing.T) {
			err := CheckConfirm(tc.period, Evaluation{Status: StatusSubmitted})
			if !errors.Is(err, tc.confirm) {
				t.Fatalf("confirm: expected %v, got %v", tc.confirm, err)
			}
			err = CheckReopen(tc.period, Evaluation{Status: StatusConfirmed})
			if !errors.Is(err, tc.reopen) {
				t.Fatalf("reopen confirmed: expected %v, got %v", tc.reopen, err)
			}
			err = CheckReopen(tc.period, Evaluation{Status: StatusSubmitted})
			if !errors.Is(err, tc.reopen) {
				t.Fatalf("reopen submitted: expected %v, got %v", tc.reopen, err)
			}
			if tc.period != PeriodStatusClosed {
				if err := CheckReopen(tc.period, Evaluation{Status: StatusDraft}); !errors.Is(err, ErrInvalidState) {
					t.Fatalf("reopen draft: expected ErrInvalidState, got %v", err)
				}
			}
		})
	}
}

func TestValidateInput(t *testing.T) {
	tooMany := Input{Projects: make([]Project, MaxProjects+1)}
	if err := ValidateInput(tooMany); !errors.Is(err, ErrTooManyProjects) {
		t.Fatalf("expected ErrTooManyProjects, got %v", err)
	}
	flags := Input{Projects: []Project{{Name: "x", Checks: make([]bool, MaxDifficultyFlags+1)}}}
	if err := ValidateInput(flags); !errors.Is(err, ErrTooManyFlags) {
		t.Fatalf("expected ErrTooManyFlags, got %v", err)
	}
	level := Input{Growth: GrowthInput{Level: "T7"}}
	if err := ValidateInput(level); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
	if err := ValidateInput(Input{}); err != nil {
		t.Fatalf("unexpected error for empty input: %v", err)
	}
	if err := ValidateRange(5, 1); !errors.Is(err, ErrInvalidScoreRange) {
		t.Fatalf("expected ErrInvalidScoreRange, got %v", err)
	}
}
