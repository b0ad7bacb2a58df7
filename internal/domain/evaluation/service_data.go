package evaluation

import (
	"context"
	"errors"
)

// ActorFor resolves the employee record behind a user. HR users without an
// employee record can still act on every evaluation.
func (s *Service) ActorFor(ctx context.Context, tenantID, userID string, isHR bool) (Actor, error) {
	actor := Actor{UserID: userID, IsHR: isHR}
	employeeID, err := s.store.EmployeeIDByUserID(ctx, tenantID, userID)
	switch {
	case err == nil:
		actor.EmployeeID = employeeID
	case errors.Is(err, ErrEmployeeNotFound):
	default:
		return Actor{}, err
	}
	return actor, nil
}

// ListEvaluatees lists a period's evaluatees. Non-HR callers only see the
// employees they evaluate.
func (s *Service) ListEvaluatees(ctx context.Context, tenantID, periodID string, actor Actor, filter EvaluateeFilter) ([]Evaluatee, error) {
	if _, err := s.store.GetPeriod(ctx, tenantID, periodID); err != nil {
		return nil, err
	}
	if !actor.IsHR {
		if actor.EmployeeID == "" {
			return []Evaluatee{}, nil
		}
		filter.EvaluatorID = actor.EmployeeID
	}
	return s.store.ListEvaluatees(ctx, tenantID, periodID, filter)
}

func (s *Service) GetEvaluation(ctx context.Context, tenantID, evaluationID string, actor Actor) (Evaluation, error) {
	ev, err := s.store.GetEvaluation(ctx, tenantID, evaluationID)
	if err != nil {
		return Evaluation{}, err
	}
	if err := CheckOwner(ev, actor); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

// Preview scores an unsaved payload against a period and grade.
func (s *Service) Preview(ctx context.Context, tenantID, periodID, grade string, in Input) (Scores, error) {
	if err := ValidateInput(in); err != nil {
		return Scores{}, err
	}
	period, err := s.store.GetPeriod(ctx, tenantID, periodID)
	if err != nil {
		return Scores{}, err
	}
	sc, err := s.scoreContext(ctx, tenantID, period, grade, in.Growth.CategoryID)
	if err != nil {
		return Scores{}, err
	}
	return Compute(in, sc), nil
}

// SaveDraft stores the payload and recomputed scores. Autosave calls this
// repeatedly; the last write wins.
func (s *Service) SaveDraft(ctx context.Context, tenantID, evaluationID string, actor Actor, in Input) (Evaluation, error) {
	if err := ValidateInput(in); err != nil {
		return Evaluation{}, err
	}
	ev, period, err := s.load(ctx, tenantID, evaluationID, actor)
	if err != nil {
		return Evaluation{}, err
	}
	if err := CheckEvaluationWrite(period.Status, ev, actor); err != nil {
		return Evaluation{}, err
	}
	ev.Input = in
	if err := s.rescore(ctx, tenantID, period, &ev); err != nil {
		return Evaluation{}, err
	}
	if err := s.store.SaveEvaluation(ctx, tenantID, ev); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

func (s *Service) Submit(ctx context.Context, tenantID, evaluationID string, actor Actor) (Evaluation, error) {
	ev, period, err := s.load(ctx, tenantID, evaluationID, actor)
	if err != nil {
		return Evaluation{}, err
	}
	if err := CheckSubmit(period.Status, ev); err != nil {
		return Evaluation{}, err
	}
	if err := s.rescore(ctx, tenantID, period, &ev); err != nil {
		return Evaluation{}, err
	}
	now := s.now()
	ev.Status = StatusSubmitted
	ev.SubmittedAt = &now
	if err := s.store.SaveEvaluation(ctx, tenantID, ev); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

func (s *Service) Confirm(ctx context.Context, tenantID, evaluationID string, actor Actor) (Evaluation, error) {
	if !actor.IsHR {
		return Evaluation{}, ErrNotEvaluator
	}
	ev, period, err := s.load(ctx, tenantID, evaluationID, actor)
	if err != nil {
		return Evaluation{}, err
	}
	if err := CheckConfirm(period.Status, ev); err != nil {
		return Evaluation{}, err
	}
	now := s.now()
	ev.Status = StatusConfirmed
	ev.ConfirmedAt = &now
	if err := s.store.SaveEvaluation(ctx, tenantID, ev); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

// Reopen sends a submitted or confirmed record back to draft.
func (s *Service) Reopen(ctx context.Context, tenantID, evaluationID string, actor Actor) (Evaluation, error) {
	if !actor.IsHR {
		return Evaluation{}, ErrNotEvaluator
	}
	ev, period, err := s.load(ctx, tenantID, evaluationID, actor)
	if err != nil {
		return Evaluation{}, err
	}
	if err := CheckReopen(period.Status, ev); err != nil {
		return Evaluation{}, err
	}
	ev.Status = StatusDraft
	ev.SubmittedAt = nil
	ev.ConfirmedAt = nil
	if err := s.store.SaveEvaluation(ctx, tenantID, ev); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

func (s *Service) ListSheetRows(ctx context.Context, tenantID, periodID string) ([]SheetRow, error) {
	if _, err := s.store.GetPeriod(ctx, tenantID, periodID); err != nil {
		return nil, err
	}
	return s.store.ListSheetRows(ctx, tenantID, periodID)
}

func (s *Service) GetSheetRow(ctx context.Context, tenantID, evaluationID string, actor Actor) (SheetRow, error) {
	row, err := s.store.GetSheetRow(ctx, tenantID, evaluationID)
	if err != nil {
		return SheetRow{}, err
	}
	if err := CheckOwner(row.Evaluation, actor); err != nil {
		return SheetRow{}, err
	}
	return row, nil
}

func (s *Service) load(ctx context.Context, tenantID, evaluationID string, actor Actor) (Evaluation, Period, error) {
	ev, err := s.store.GetEvaluation(ctx, tenantID, evaluationID)
	if err != nil {
		return Evaluation{}, Period{}, err
	}
	if err := CheckOwner(ev, actor); err != nil {
		return Evaluation{}, Period{}, err
	}
	period, err := s.store.GetPeriod(ctx, tenantID, ev.PeriodID)
	if err != nil {
		return Evaluation{}, Period{}, err
	}
	return ev, period, nil
}

func (s *Service) rescore(ctx context.Context, tenantID string, period Period, ev *Evaluation) error {
	sc, err := s.scoreContext(ctx, tenantID, period, ev.JobGrade, ev.Input.Growth.CategoryID)
	if err != nil {
		return err
	}
	ev.Scores = Compute(ev.Input, sc)
	return nil
}

// scoreContext gathers range, weights and growth coefficient. Missing weights
// or an unknown growth category score as zero instead of failing.
func (s *Service) scoreContext(ctx context.Context, tenantID string, period Period, grade, growthCategoryID string) (ScoreContext, error) {
	sc := ScoreContext{ResultsMin: period.ResultsMin, ResultsMax: period.ResultsMax}
	weights, err := s.WeightsFor(ctx, tenantID, grade)
	switch {
	case err == nil:
		sc.Weights = weights
	case errors.Is(err, ErrWeightsNotFound):
	default:
		return ScoreContext{}, err
	}
	if growthCategoryID != "" {
		coefficient, err := s.store.GrowthCoefficient(ctx, tenantID, growthCategoryID)
		switch {
		case err == nil:
			sc.GrowthCoefficient = coefficient
		case errors.Is(err, ErrCategoryNotFound):
		default:
			return ScoreContext{}, err
		}
	}
	return sc, nil
}
