package evaluation

import "errors"

var (
	ErrPeriodNotFound     = errors.New("evaluation period not found")
	ErrInvalidTransition  = errors.New("evaluation period status transition not allowed")
	ErrPeriodLocked       = errors.New("evaluation period does not accept changes")
	ErrPeriodNotDeletable = errors.New("only draft evaluation periods can be deleted")
	ErrInvalidScoreRange  = errors.New("results score range must satisfy min < max")
	ErrWeightsSum         = errors.New("weights must be non-negative and sum to 100")
	ErrWeightsNotFound    = errors.New("weights not found for grade")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidCoefficient = errors.New("growth coefficient must be positive")
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrInvalidState       = errors.New("evaluation status does not allow this action")
	ErrTooManyProjects    = errors.New("too many process projects")
	ErrTooManyFlags       = errors.New("too many difficulty flags")
	ErrInvalidLevel       = errors.New("unknown achievement level")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrNotEvaluator       = errors.New("caller is not the evaluator of this record")
)
