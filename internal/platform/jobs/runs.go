package jobs

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrUnknownJob = errors.New("unknown job type")

// RunRecorder keeps the job_runs bookkeeping.
type RunRecorder interface {
	Start(ctx context.Context, tenantID, jobType string) (string, error)
	Finish(ctx context.Context, runID, status string, details any) error
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ RunRecorder = (*Store)(nil)

func (s *Store) Start(ctx context.Context, tenantID, jobType string) (string, error) {
	var id string
	var tenant any
	if tenantID != "" {
		tenant = tenantID
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, tenant, jobType, StatusRunning).Scan(&id)
	return id, err
}

func (s *Store) Finish(ctx context.Context, runID, status string, details any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, payload, runID)
	return err
}
