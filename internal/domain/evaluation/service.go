package evaluation

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) ListPeriods(ctx context.Context, tenantID string) ([]Period, error) {
	return s.store.ListPeriods(ctx, tenantID)
}

func (s *Service) GetPeriod(ctx context.Context, tenantID, periodID string) (Period, error) {
	return s.store.GetPeriod(ctx, tenantID, periodID)
}

// CreatePeriod stores a new draft period. A zero range defaults to 1..5.
func (s *Service) CreatePeriod(ctx context.Context, tenantID string, period Period) (Period, error) {
	period.Name = strings.TrimSpace(period.Name)
	if period.ResultsMin == 0 && period.ResultsMax == 0 {
		period.ResultsMin, period.ResultsMax = DefaultResultsMin, DefaultResultsMax
	}
	if err := ValidateRange(period.ResultsMin, period.ResultsMax); err != nil {
		return Period{}, err
	}
	period.Status = PeriodStatusDraft
	id, err := s.store.CreatePeriod(ctx, tenantID, period)
	if err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, tenantID, id)
}

// UpdatePeriod edits a period that is not closed. A zero range keeps the
// stored one.
func (s *Service) UpdatePeriod(ctx context.Context, tenantID string, period Period) (Period, error) {
	current, err := s.store.GetPeriod(ctx, tenantID, period.ID)
	if err != nil {
		return Period{}, err
	}
	if current.Status == PeriodStatusClosed {
		return Period{}, ErrPeriodLocked
	}
	if period.ResultsMin == 0 && period.ResultsMax == 0 {
		period.ResultsMin, period.ResultsMax = current.ResultsMin, current.ResultsMax
	}
	if err := ValidateRange(period.ResultsMin, period.ResultsMax); err != nil {
		return Period{}, err
	}
	period.Name = strings.TrimSpace(period.Name)
	if err := s.store.UpdatePeriod(ctx, tenantID, period); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, tenantID, period.ID)
}

func (s *Service) DeletePeriod(ctx context.Context, tenantID, periodID string) error {
	current, err := s.store.GetPeriod(ctx, tenantID, periodID)
	if err != nil {
		return err
	}
	if current.Status != PeriodStatusDraft {
		return ErrPeriodNotDeletable
	}
	return s.store.DeletePeriod(ctx, tenantID, periodID)
}

// TransitionPeriod moves a period one step through its lifecycle. Moving to
// active makes sure every active employee has a record to fill in; if that
// fails the period keeps its old status.
func (s *Service) TransitionPeriod(ctx context.Context, tenantID, periodID, status string) (Period, error) {
	current, err := s.store.GetPeriod(ctx, tenantID, periodID)
	if err != nil {
		return Period{}, err
	}
	if err := CheckTransition(current.Status, status); err != nil {
		return Period{}, err
	}
	if _, err := s.store.SetPeriodStatus(ctx, tenantID, periodID, status); err != nil {
		return Period{}, err
	}
	return s.store.GetPeriod(ctx, tenantID, periodID)
}

func (s *Service) ListWeights(ctx context.Context, tenantID string) ([]WeightRow, error) {
	return s.store.ListWeights(ctx, tenantID)
}

func (s *Service) SetWeights(ctx context.Context, tenantID, grade string, weights Weights) error {
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return ErrWeightsNotFound
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	return s.store.UpsertWeights(ctx, tenantID, grade, weights)
}

func (s *Service) DeleteWeights(ctx context.Context, tenantID, grade string) error {
	return s.store.DeleteWeights(ctx, tenantID, grade)
}

// WeightsFor returns the grade's weights, falling back to the default row.
func (s *Service) WeightsFor(ctx context.Context, tenantID, grade string) (Weights, error) {
	w, err := s.store.GetWeights(ctx, tenantID, grade)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrWeightsNotFound) || grade == DefaultWeightGrade {
		return Weights{}, err
	}
	return s.store.GetWeights(ctx, tenantID, DefaultWeightGrade)
}

func (s *Service) ListProcessCategories(ctx context.Context, tenantID string, activeOnly bool) ([]ProcessCategory, error) {
	return s.store.ListProcessCategories(ctx, tenantID, activeOnly)
}

func (s *Service) SaveProcessCategory(ctx context.Context, tenantID string, category ProcessCategory) (string, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.ID == "" {
		return s.store.CreateProcessCategory(ctx, tenantID, category)
	}
	return category.ID, s.store.UpdateProcessCategory(ctx, tenantID, category)
}

func (s *Service) DeleteProcessCategory(ctx context.Context, tenantID, categoryID string) error {
	return s.store.DeleteProcessCategory(ctx, tenantID, categoryID)
}

func (s *Service) ListGrowthCategories(ctx context.Context, tenantID string, activeOnly bool) ([]GrowthCategory, error) {
	return s.store.ListGrowthCategories(ctx, tenantID, activeOnly)
}

func (s *Service) SaveGrowthCategory(ctx context.Context, tenantID string, category GrowthCategory) (string, error) {
	if category.Coefficient <= 0 {
		return "", ErrInvalidCoefficient
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.ID == "" {
		return s.store.CreateGrowthCategory(ctx, tenantID, category)
	}
	return category.ID, s.store.UpdateGrowthCategory(ctx, tenantID, category)
}

func (s *Service) DeleteGrowthCategory(ctx context.Context, tenantID, categoryID string) error {
	return s.store.DeleteGrowthCategory(ctx, tenantID, categoryID)
}
