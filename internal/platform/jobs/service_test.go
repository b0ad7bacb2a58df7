package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type runRecord struct {
	jobType string
	status  string
	details any
}

type fakeRuns struct {
	mu      sync.Mutex
	records map[string]*runRecord
	next    int
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{records: map[string]*runRecord{}}
}

func (f *fakeRuns) Start(_ context.Context, _, jobType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := string(rune('a' + f.next))
	f.records[id] = &runRecord{jobType: jobType, status: StatusRunning}
	return id, nil
}

func (f *fakeRuns) Finish(_ context.Context, runID, status string, details any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[runID].status = status
	f.records[runID].details = details
	return nil
}

func (f *fakeRuns) statuses(jobType string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.records {
		if r.jobType == jobType {
			out = append(out, r.status)
		}
	}
	return out
}

type fakeKeys struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeKeys) DeactivateExpired(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 2, f.err
}

func (f *fakeKeys) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePurger struct{ days int }

func (f *fakePurger) Purge(_ context.Context, retentionDays int) (int64, error) {
	f.days = retentionDays
	if retentionDays <= 0 {
		return 0, nil
	}
	return 5, nil
}

func TestRunNowRecordsRuns(t *testing.T) {
	runs := newFakeRuns()
	keys := &fakeKeys{}
	purger := &fakePurger{}
	svc := New(runs, keys, purger, Schedule{AuditRetentionDays: 30})

	details, err := svc.RunNow(context.Background(), JobAccessKeySweep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := details.(map[string]int64)["deactivated"]; got != 2 {
		t.Fatalf("expected 2 deactivated, got %d", got)
	}
	if _, err := svc.RunNow(context.Background(), JobAuditRetention); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purger.days != 30 {
		t.Fatalf("expected retention of 30 days, got %d", purger.days)
	}
	if s := runs.statuses(JobAccessKeySweep); len(s) != 1 || s[0] != StatusCompleted {
		t.Fatalf("unexpected sweep runs %v", s)
	}

	keys.err = errors.New("db down")
	if _, err := svc.RunNow(context.Background(), JobAccessKeySweep); err == nil {
		t.Fatal("expected the sweep error to surface")
	}
	failed := 0
	for _, s := range runs.statuses(JobAccessKeySweep) {
		if s == StatusFailed {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected one failed run, got %v", runs.statuses(JobAccessKeySweep))
	}

	if _, err := svc.RunNow(context.Background(), "payroll"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}
}

func TestSchedulerRunsAndStops(t *testing.T) {
	runs := newFakeRuns()
	keys := &fakeKeys{}
	svc := New(runs, keys, nil, Schedule{AccessKeySweep: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for keys.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not stop after cancel")
	}
	if keys.count() < 2 {
		t.Fatalf("expected repeated sweeps, got %d", keys.count())
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	svc := New(newFakeRuns(), &fakeKeys{}, nil, Schedule{})
	noop := func(context.Context) (any, error) { return nil, nil }
	for i := 0; i < queueSize; i++ {
		if !svc.Enqueue("noop", "", noop) {
			t.Fatalf("enqueue %d refused before the queue was full", i)
		}
	}
	if svc.Enqueue("noop", "", noop) {
		t.Fatal("expected a full queue to refuse the job")
	}
}
