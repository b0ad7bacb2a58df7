package evaluation

import "context"

type StoreAPI interface {
	ListPeriods(ctx context.Context, tenantID string) ([]Period, error)
	GetPeriod(ctx context.Context, tenantID, periodID string) (Period, error)
	CreatePeriod(ctx context.Context, tenantID string, period Period) (string, error)
	UpdatePeriod(ctx context.Context, tenantID string, period Period) error
	DeletePeriod(ctx context.Context, tenantID, periodID string) error
	SetPeriodStatus(ctx context.Context, tenantID, periodID, status string) (int64, error)

	ListWeights(ctx context.Context, tenantID string) ([]WeightRow, error)
	GetWeights(ctx context.Context, tenantID, grade string) (Weights, error)
	UpsertWeights(ctx context.Context, tenantID, grade string, weights Weights) error
	DeleteWeights(ctx context.Context, tenantID, grade string) error

	ListProcessCategories(ctx context.Context, tenantID string, activeOnly bool) ([]ProcessCategory, error)
	CreateProcessCategory(ctx context.Context, tenantID string, category ProcessCategory) (string, error)
	UpdateProcessCategory(ctx context.Context, tenantID string, category ProcessCategory) error
	DeleteProcessCategory(ctx context.Context, tenantID, categoryID string) error
	ListGrowthCategories(ctx context.Context, tenantID string, activeOnly bool) ([]GrowthCategory, error)
	CreateGrowthCategory(ctx context.Context, tenantID string, category GrowthCategory) (string, error)
	UpdateGrowthCategory(ctx context.Context, tenantID string, category GrowthCategory) error
	DeleteGrowthCategory(ctx context.Context, tenantID, categoryID string) error
	GrowthCoefficient(ctx context.Context, tenantID, categoryID string) (float64, error)

	ListEvaluatees(ctx context.Context, tenantID, periodID string, filter EvaluateeFilter) ([]Evaluatee, error)
	GetEvaluation(ctx context.Context, tenantID, evaluationID string) (Evaluation, error)
	SaveEvaluation(ctx context.Context, tenantID string, ev Evaluation) error
	EmployeeIDByUserID(ctx context.Context, tenantID, userID string) (string, error)
	ListSheetRows(ctx context.Context, tenantID, periodID string) ([]SheetRow, error)
	GetSheetRow(ctx context.Context, tenantID, evaluationID string) (SheetRow, error)
}
