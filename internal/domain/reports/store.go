package reports

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

func (s *Store) PeriodExists(ctx context.Context, tenantID, periodID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM evaluation_periods WHERE tenant_id = $1 AND id::text = $2)
  `, tenantID, periodID).Scan(&exists)
	return exists, err
}

func (s *Store) SummaryRows(ctx context.Context, tenantID, periodID, evaluatorID string) ([]SummaryRow, error) {
	query := `
    SELECT COALESCE(d.id::text, ''), COALESCE(d.name, ''), ev.status, ev.complete, ev.final_score::float8, ev.rating
    FROM evaluations ev
    JOIN employees e ON e.id = ev.employee_id
    LEFT JOIN departments d ON d.id = e.department_id
    WHERE ev.tenant_id = $1 AND ev.period_id::text = $2`
	args := []any{tenantID, periodID}
	if evaluatorID != "" {
		args = append(args, evaluatorID)
		query += " AND ev.evaluator_id::text = $3"
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.DepartmentID, &row.DepartmentName, &row.Status, &row.Complete, &row.FinalScore, &row.Rating); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Scheduled jobs run without a tenant and are visible to every tenant's
// administrators.
func jobRunsQuery(tenantID string, filter JobRunFilter) (string, []any) {
	query := `
    SELECT id, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE (tenant_id = $1 OR tenant_id IS NULL)`
	args := []any{tenantID}

	if value := strings.TrimSpace(filter.JobType); value != "" {
		args = append(args, value)
		query += " AND job_type = $" + strconv.Itoa(len(args))
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		args = append(args, value)
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.StartedFrom != nil {
		args = append(args, *filter.StartedFrom)
		query += " AND started_at >= $" + strconv.Itoa(len(args))
	}
	if filter.StartedTo != nil {
		args = append(args, *filter.StartedTo)
		query += " AND started_at <= $" + strconv.Itoa(len(args))
	}
	return query, args
}

func (s *Store) ListJobRuns(ctx context.Context, tenantID string, filter JobRunFilter, limit, offset int) ([]JobRun, error) {
	query, args := jobRunsQuery(tenantID, filter)
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []JobRun
	for rows.Next() {
		var run JobRun
		var raw []byte
		var completed *time.Time
		if err := rows.Scan(&run.ID, &run.JobType, &run.Status, &raw, &run.StartedAt, &completed); err != nil {
			return nil, err
		}
		run.Details = decodeDetails(raw)
		run.CompletedAt = completed
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) CountJobRuns(ctx context.Context, tenantID string, filter JobRunFilter) (int, error) {
	query, args := jobRunsQuery(tenantID, filter)
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") runs", args...).Scan(&total)
	return total, err
}

func decodeDetails(raw []byte) map[string]any {
	details := map[string]any{}
	if len(raw) == 0 {
		return details
	}
	if err := json.Unmarshal(raw, &details); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return details
}
