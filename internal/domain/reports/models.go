package reports

import (
	"errors"
	"time"
)

var ErrPeriodNotFound = errors.New("evaluation period not found")

// StatusCounts tallies evaluation records by workflow status.
type StatusCounts struct {
	Draft     int `json:"draft"`
	Submitted int `json:"submitted"`
	Confirmed int `json:"confirmed"`
}

type DepartmentProgress struct {
	DepartmentID   string       `json:"departmentId"`
	DepartmentName string       `json:"departmentName"`
	Total          int          `json:"total"`
	Status         StatusCounts `json:"status"`
}

// PeriodSummary is the progress dashboard of one evaluation period.
type PeriodSummary struct {
	PeriodID     string               `json:"periodId"`
	Total        int                  `json:"total"`
	Complete     int                  `json:"complete"`
	Status       StatusCounts         `json:"status"`
	AverageFinal *float64             `json:"averageFinalScore,omitempty"`
	Ratings      map[string]int       `json:"ratings"`
	Departments  []DepartmentProgress `json:"departments"`
}

// SummaryRow is one evaluation record as the dashboard needs it.
type SummaryRow struct {
	DepartmentID   string
	DepartmentName string
	Status         string
	Complete       bool
	FinalScore     *float64
	Rating         string
}

type JobRun struct {
	ID          string         `json:"id"`
	JobType     string         `json:"jobType"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

type JobRunFilter struct {
	JobType     string
	Status      string
	StartedFrom *time.Time
	StartedTo   *time.Time
}
