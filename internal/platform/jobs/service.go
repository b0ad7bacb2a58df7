package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	JobAccessKeySweep = "access_key_sweep"
	JobAuditRetention = "audit_retention"

	queueSize = 64
)

type KeySweeper interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

type AuditPurger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

type Schedule struct {
	AccessKeySweep     time.Duration
	AuditRetention     time.Duration
	AuditRetentionDays int
}

// Service runs background jobs on a single worker fed by tickers. Every run
// is recorded through Runs.
type Service struct {
	Runs     RunRecorder
	Keys     KeySweeper
	Audit    AuditPurger
	Schedule Schedule

	queue chan job
	wg    sync.WaitGroup
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

func New(runs RunRecorder, keys KeySweeper, audit AuditPurger, schedule Schedule) *Service {
	return &Service{
		Runs:     runs,
		Keys:     keys,
		Audit:    audit,
		Schedule: schedule,
		queue:    make(chan job, queueSize),
	}
}

// Start launches the worker and the schedulers. They stop when ctx is
// cancelled; Wait blocks until they have.
func (s *Service) Start(ctx context.Context) {
	s.spawn(func() { s.worker(ctx) })
	if s.Keys != nil && s.Schedule.AccessKeySweep > 0 {
		s.spawn(func() { s.every(ctx, s.Schedule.AccessKeySweep, s.EnqueueKeySweep) })
	}
	if s.Audit != nil && s.Schedule.AuditRetention > 0 {
		s.spawn(func() { s.every(ctx, s.Schedule.AuditRetention, s.EnqueueAuditRetention) })
	}
}

func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Enqueue drops the job when the queue is full; the next tick retries.
func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
		return false
	}
}

func (s *Service) EnqueueKeySweep() {
	s.Enqueue(JobAccessKeySweep, "", s.sweepKeys)
}

func (s *Service) EnqueueAuditRetention() {
	s.Enqueue(JobAuditRetention, "", s.purgeAudit)
}

// RunNow executes a job synchronously on the caller's goroutine.
func (s *Service) RunNow(ctx context.Context, jobType string) (any, error) {
	switch jobType {
	case JobAccessKeySweep:
		return s.runJob(ctx, job{Type: jobType, Run: s.sweepKeys})
	case JobAuditRetention:
		return s.runJob(ctx, job{Type: jobType, Run: s.purgeAudit})
	default:
		return nil, ErrUnknownJob
	}
}

func (s *Service) sweepKeys(ctx context.Context) (any, error) {
	n, err := s.Keys.DeactivateExpired(ctx)
	return map[string]int64{"deactivated": n}, err
}

func (s *Service) purgeAudit(ctx context.Context) (any, error) {
	n, err := s.Audit.Purge(ctx, s.Schedule.AuditRetentionDays)
	return map[string]any{"deleted": n, "retentionDays": s.Schedule.AuditRetentionDays}, err
}

func (s *Service) every(ctx context.Context, interval time.Duration, enqueue func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueue()
		}
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, err := s.Runs.Start(ctx, j.TenantID, j.Type)
	if err != nil {
		slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
	}

	details, runErr := j.Run(ctx)
	status := StatusCompleted
	if runErr != nil {
		status = StatusFailed
	}
	if runID != "" {
		if err := s.Runs.Finish(ctx, runID, status, details); err != nil {
			slog.Warn("job run update failed", "jobType", j.Type, "err", err)
		}
	}
	slog.Info("job finished", "jobType", j.Type, "status", status)
	return details, runErr
}
