package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListPeriods(ctx context.Context, tenantID string) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, start_date, end_date, status, results_min, results_max, created_at, updated_at
    FROM evaluation_periods
    WHERE tenant_id = $1
    ORDER BY start_date DESC, name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.ResultsMin, &p.ResultsMax, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) GetPeriod(ctx context.Context, tenantID, periodID string) (Period, error) {
	if !validID(periodID) {
		return Period{}, ErrPeriodNotFound
	}
	var p Period
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, start_date, end_date, status, results_min, results_max, created_at, updated_at
    FROM evaluation_periods
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, periodID).Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.ResultsMin, &p.ResultsMax, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrPeriodNotFound
	}
	return p, err
}

func (s *Store) CreatePeriod(ctx context.Context, tenantID string, period Period) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluation_periods (tenant_id, name, start_date, end_date, status, results_min, results_max)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, tenantID, period.Name, period.StartDate, period.EndDate, period.Status, period.ResultsMin, period.ResultsMax).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdatePeriod(ctx context.Context, tenantID string, period Period) error {
	if !validID(period.ID) {
		return ErrPeriodNotFound
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_periods
    SET name = $3, start_date = $4, end_date = $5, results_min = $6, results_max = $7, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, period.ID, period.Name, period.StartDate, period.EndDate, period.ResultsMin, period.ResultsMax)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

func (s *Store) DeletePeriod(ctx context.Context, tenantID, periodID string) error {
	if !validID(periodID) {
		return ErrPeriodNotFound
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM evaluation_periods WHERE tenant_id = $1 AND id = $2", tenantID, periodID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

// SetPeriodStatus moves the period to status. Moving to active also creates
// an empty record for every active employee that does not yet have one in
// the period; both happen in one transaction.
func (s *Store) SetPeriodStatus(ctx context.Context, tenantID, periodID, status string) (int64, error) {
	if !validID(periodID) {
		return 0, ErrPeriodNotFound
	}
	var created int64
	err := pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE evaluation_periods SET status = $3, updated_at = now()
      WHERE tenant_id = $1 AND id = $2
    `, tenantID, periodID, status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrPeriodNotFound
		}
		if status != PeriodStatusActive {
			return nil
		}
		tag, err = tx.Exec(ctx, `
      INSERT INTO evaluations (tenant_id, period_id, employee_id, evaluator_id, job_grade)
      SELECT e.tenant_id, $2, e.id, e.manager_id, e.job_grade
      FROM employees e
      WHERE e.tenant_id = $1 AND e.status = 'active'
      ON CONFLICT (period_id, employee_id) DO NOTHING
    `, tenantID, periodID)
		if err != nil {
			return fmt.Errorf("create evaluations: %w", err)
		}
		created = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *Store) ListWeights(ctx context.Context, tenantID string) ([]WeightRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT grade, results_weight, process_weight, growth_weight, updated_at
    FROM evaluation_weights
    WHERE tenant_id = $1
    ORDER BY grade
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeightRow
	for rows.Next() {
		var row WeightRow
		if err := rows.Scan(&row.Grade, &row.Results, &row.Process, &row.Growth, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) GetWeights(ctx context.Context, tenantID, grade string) (Weights, error) {
	var w Weights
	err := s.DB.QueryRow(ctx, `
    SELECT results_weight, process_weight, growth_weight
    FROM evaluation_weights
    WHERE tenant_id = $1 AND grade = $2
  `, tenantID, grade).Scan(&w.Results, &w.Process, &w.Growth)
	if errors.Is(err, pgx.ErrNoRows) {
		return Weights{}, ErrWeightsNotFound
	}
	return w, err
}

func (s *Store) UpsertWeights(ctx context.Context, tenantID, grade string, weights Weights) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO evaluation_weights (tenant_id, grade, results_weight, process_weight, growth_weight)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (tenant_id, grade)
    DO UPDATE SET results_weight = EXCLUDED.results_weight,
                  process_weight = EXCLUDED.process_weight,
                  growth_weight = EXCLUDED.growth_weight,
                  updated_at = now()
  `, tenantID, grade, weights.Results, weights.Process, weights.Growth)
	return err
}

func (s *Store) DeleteWeights(ctx context.Context, tenantID, grade string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM evaluation_weights WHERE tenant_id = $1 AND grade = $2", tenantID, grade)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWeightsNotFound
	}
	return nil
}

func (s *Store) ListProcessCategories(ctx context.Context, tenantID string, activeOnly bool) ([]ProcessCategory, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, description, sort_order, active
    FROM process_categories
    WHERE tenant_id = $1 AND ($2::boolean = false OR active)
    ORDER BY sort_order, name
  `, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProcessCategory
	for rows.Next() {
		var c ProcessCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateProcessCategory(ctx context.Context, tenantID string, category ProcessCategory) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO process_categories (tenant_id, name, description, sort_order, active)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, category.Name, category.Description, category.SortOrder, category.Active).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateProcessCategory(ctx context.Context, tenantID string, category ProcessCategory) error {
	if !validID(category.ID) {
		return ErrCategoryNotFound
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE process_categories
    SET name = $3, description = $4, sort_order = $5, active = $6
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, category.ID, category.Name, category.Description, category.SortOrder, category.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Store) DeleteProcessCategory(ctx context.Context, tenantID, categoryID string) error {
	if !validID(categoryID) {
		return ErrCategoryNotFound
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM process_categories WHERE tenant_id = $1 AND id = $2", tenantID, categoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Store) ListGrowthCategories(ctx context.Context, tenantID string, activeOnly bool) ([]GrowthCategory, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, description, coefficient, sort_order, active
    FROM growth_categories
    WHERE tenant_id = $1 AND ($2::boolean = false OR active)
    ORDER BY sort_order, name
  `, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GrowthCategory
	for rows.Next() {
		var c GrowthCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Coefficient, &c.SortOrder, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateGrowthCategory(ctx context.Context, tenantID string, category GrowthCategory) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO growth_categories (tenant_id, name, description, coefficient, sort_order, active)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tenantID, category.Name, category.Description, category.Coefficient, category.SortOrder, category.Active).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateGrowthCategory(ctx context.Context, tenantID string, category GrowthCategory) error {
	if !validID(category.ID) {
		return ErrCategoryNotFound
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE growth_categories
    SET name = $3, description = $4, coefficient = $5, sort_order = $6, active = $7
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, category.ID, category.Name, category.Description, category.Coefficient, category.SortOrder, category.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Store) DeleteGrowthCategory(ctx context.Context, tenantID, categoryID string) error {
	if !validID(categoryID) {
		return ErrCategoryNotFound
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM growth_categories WHERE tenant_id = $1 AND id = $2", tenantID, categoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Store) GrowthCoefficient(ctx context.Context, tenantID, categoryID string) (float64, error) {
	if !validID(categoryID) {
		return 0, ErrCategoryNotFound
	}
	var coefficient float64
	err := s.DB.QueryRow(ctx, `
    SELECT coefficient FROM growth_categories WHERE tenant_id = $1 AND id = $2
  `, tenantID, categoryID).Scan(&coefficient)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrCategoryNotFound
	}
	return coefficient, err
}

func (s *Store) ListEvaluatees(ctx context.Context, tenantID, periodID string, filter EvaluateeFilter) ([]Evaluatee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.employee_number, e.first_name || ' ' || e.last_name,
           COALESCE(e.department_id::text, ''), COALESCE(d.name, ''), e.job_grade,
           COALESCE(ev.evaluator_id::text, e.manager_id::text, ''),
           COALESCE(ev.id::text, ''), COALESCE(ev.status, 'draft'),
           ev.final_score, COALESCE(ev.rating, ''), COALESCE(ev.complete, false)
    FROM employees e
    LEFT JOIN departments d ON d.id = e.department_id
    LEFT JOIN evaluations ev ON ev.employee_id = e.id AND ev.period_id = $2
    WHERE e.tenant_id = $1
      AND (e.status = 'active' OR ev.id IS NOT NULL)
      AND ($3::text = '' OR e.department_id::text = $3)
      AND ($4::text = '' OR COALESCE(ev.evaluator_id, e.manager_id)::text = $4)
      AND ($5::text = '' OR COALESCE(ev.status, 'draft') = $5)
    ORDER BY e.employee_number
  `, tenantID, periodID, filter.DepartmentID, filter.EvaluatorID, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Evaluatee
	for rows.Next() {
		var e Evaluatee
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeNumber, &e.Name, &e.DepartmentID, &e.DepartmentName, &e.JobGrade,
			&e.EvaluatorID, &e.EvaluationID, &e.Status, &e.FinalScore, &e.Rating, &e.Complete); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEvaluation(ctx context.Context, tenantID, evaluationID string) (Evaluation, error) {
	if !validID(evaluationID) {
		return Evaluation{}, ErrEvaluationNotFound
	}
	var ev Evaluation
	var inputJSON, scoresJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, period_id, employee_id, COALESCE(evaluator_id::text, ''), job_grade,
           input_json, scores_json, status, submitted_at, confirmed_at, updated_at
    FROM evaluations
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, evaluationID).Scan(&ev.ID, &ev.PeriodID, &ev.EmployeeID, &ev.EvaluatorID, &ev.JobGrade,
		&inputJSON, &scoresJSON, &ev.Status, &ev.SubmittedAt, &ev.ConfirmedAt, &ev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Evaluation{}, ErrEvaluationNotFound
	}
	if err != nil {
		return Evaluation{}, err
	}
	if err := decodeRecord(inputJSON, scoresJSON, &ev); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

// SaveEvaluation overwrites the stored record. Concurrent editors are not
// reconciled: the last write wins.
func (s *Store) SaveEvaluation(ctx context.Context, tenantID string, ev Evaluation) error {
	inputJSON, err := json.Marshal(ev.Input)
	if err != nil {
		return err
	}
	scoresJSON, err := json.Marshal(ev.Scores)
	if err != nil {
		return err
	}
	var finalScore *float64
	if ev.Scores.Complete {
		finalScore = &ev.Scores.Final
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET input_json = $3, scores_json = $4, final_score = $5, rating = $6, complete = $7,
        status = $8, submitted_at = $9, confirmed_at = $10, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, ev.ID, inputJSON, scoresJSON, finalScore, string(ev.Scores.Rating), ev.Scores.Complete,
		ev.Status, ev.SubmittedAt, ev.ConfirmedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEvaluationNotFound
	}
	return nil
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, tenantID, userID string) (string, error) {
	var employeeID string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE tenant_id = $1 AND user_id = $2", tenantID, userID).Scan(&employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrEmployeeNotFound
	}
	return employeeID, err
}

const sheetSelect = `
    SELECT p.name, emp.employee_number, emp.first_name || ' ' || emp.last_name, COALESCE(d.name, ''), ev.job_grade,
           COALESCE(w.results_weight, dw.results_weight, 0),
           COALESCE(w.process_weight, dw.process_weight, 0),
           COALESCE(w.growth_weight, dw.growth_weight, 0),
           ev.id, ev.period_id, ev.employee_id, COALESCE(ev.evaluator_id::text, ''),
           ev.input_json, ev.scores_json, ev.status, ev.submitted_at, ev.confirmed_at, ev.updated_at
    FROM evaluations ev
    JOIN evaluation_periods p ON p.id = ev.period_id
    JOIN employees emp ON emp.id = ev.employee_id
    LEFT JOIN departments d ON d.id = emp.department_id
    LEFT JOIN evaluation_weights w ON w.tenant_id = ev.tenant_id AND w.grade = ev.job_grade
    LEFT JOIN evaluation_weights dw ON dw.tenant_id = ev.tenant_id AND dw.grade = 'default'
`

func (s *Store) ListSheetRows(ctx context.Context, tenantID, periodID string) ([]SheetRow, error) {
	rows, err := s.DB.Query(ctx, sheetSelect+`
    WHERE ev.tenant_id = $1 AND ev.period_id = $2
    ORDER BY emp.employee_number
  `, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SheetRow
	for rows.Next() {
		row, err := scanSheetRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) GetSheetRow(ctx context.Context, tenantID, evaluationID string) (SheetRow, error) {
	if !validID(evaluationID) {
		return SheetRow{}, ErrEvaluationNotFound
	}
	row, err := scanSheetRow(s.DB.QueryRow(ctx, sheetSelect+`
    WHERE ev.tenant_id = $1 AND ev.id = $2
  `, tenantID, evaluationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return SheetRow{}, ErrEvaluationNotFound
	}
	return row, err
}

func scanSheetRow(row pgx.Row) (SheetRow, error) {
	var out SheetRow
	var inputJSON, scoresJSON []byte
	ev := &out.Evaluation
	if err := row.Scan(&out.PeriodName, &out.EmployeeNumber, &out.EmployeeName, &out.DepartmentName, &out.JobGrade,
		&out.Weights.Results, &out.Weights.Process, &out.Weights.Growth,
		&ev.ID, &ev.PeriodID, &ev.EmployeeID, &ev.EvaluatorID,
		&inputJSON, &scoresJSON, &ev.Status, &ev.SubmittedAt, &ev.ConfirmedAt, &ev.UpdatedAt); err != nil {
		return SheetRow{}, err
	}
	ev.JobGrade = out.JobGrade
	if err := decodeRecord(inputJSON, scoresJSON, ev); err != nil {
		return SheetRow{}, err
	}
	return out, nil
}

func decodeRecord(inputJSON, scoresJSON []byte, ev *Evaluation) error {
	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &ev.Input); err != nil {
			return err
		}
	}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &ev.Scores); err != nil {
			return err
		}
	}
	return nil
}
