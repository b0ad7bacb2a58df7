package reports

import (
	"context"
	"math"
	"sort"

	"hreval/internal/domain/evaluation"
)

type StoreAPI interface {
	PeriodExists(ctx context.Context, tenantID, periodID string) (bool, error)
	SummaryRows(ctx context.Context, tenantID, periodID, evaluatorID string) ([]SummaryRow, error)
	ListJobRuns(ctx context.Context, tenantID string, filter JobRunFilter, limit, offset int) ([]JobRun, error)
	CountJobRuns(ctx context.Context, tenantID string, filter JobRunFilter) (int, error)
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// PeriodSummary aggregates a period's records. A non-empty evaluatorID
// limits the summary to that evaluator's reports.
func (s *Service) PeriodSummary(ctx context.Context, tenantID, periodID, evaluatorID string) (PeriodSummary, error) {
	ok, err := s.store.PeriodExists(ctx, tenantID, periodID)
	if err != nil {
		return PeriodSummary{}, err
	}
	if !ok {
		return PeriodSummary{}, ErrPeriodNotFound
	}
	rows, err := s.store.SummaryRows(ctx, tenantID, periodID, evaluatorID)
	if err != nil {
		return PeriodSummary{}, err
	}
	summary := Summarize(rows)
	summary.PeriodID = periodID
	return summary, nil
}

// Summarize folds records into a PeriodSummary. Only complete records count
// towards the average and the rating distribution.
func Summarize(rows []SummaryRow) PeriodSummary {
	out := PeriodSummary{
		Ratings:     map[string]int{},
		Departments: []DepartmentProgress{},
	}
	for _, r := range []evaluation.Rating{evaluation.RatingS, evaluation.RatingA, evaluation.RatingB, evaluation.RatingC, evaluation.RatingD} {
		out.Ratings[string(r)] = 0
	}

	departments := map[string]*DepartmentProgress{}
	total := 0.0
	for _, row := range rows {
		out.Total++
		count(&out.Status, row.Status)

		dep, ok := departments[row.DepartmentID]
		if !ok {
			dep = &DepartmentProgress{DepartmentID: row.DepartmentID, DepartmentName: row.DepartmentName}
			departments[row.DepartmentID] = dep
		}
		dep.Total++
		count(&dep.Status, row.Status)

		if !row.Complete {
			continue
		}
		out.Complete++
		if row.FinalScore != nil {
			total += *row.FinalScore
		}
		if row.Rating != "" {
			out.Ratings[row.Rating]++
		}
	}
	if out.Complete > 0 {
		avg := math.Round(total/float64(out.Complete)*100) / 100
		out.AverageFinal = &avg
	}

	for _, dep := range departments {
		out.Departments = append(out.Departments, *dep)
	}
	sort.Slice(out.Departments, func(i, j int) bool {
		return out.Departments[i].DepartmentName < out.Departments[j].DepartmentName
	})
	return out
}

func count(c *StatusCounts, status string) {
	switch status {
	case evaluation.StatusDraft:
		c.Draft++
	case evaluation.StatusSubmitted:
		c.Submitted++
	case evaluation.StatusConfirmed:
		c.Confirmed++
	}
}

func (s *Service) JobRuns(ctx context.Context, tenantID string, filter JobRunFilter, limit, offset int) ([]JobRun, int, error) {
	runs, err := s.store.ListJobRuns(ctx, tenantID, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountJobRuns(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	if runs == nil {
		runs = []JobRun{}
	}
	return runs, total, nil
}
