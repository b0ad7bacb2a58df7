package evaluation

import "time"

type Period struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Status     string    `json:"status"`
	ResultsMin float64   `json:"resultsMin"`
	ResultsMax float64   `json:"resultsMax"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Weights struct {
	Results float64 `json:"resultsWeight"`
	Process float64 `json:"processWeight"`
	Growth  float64 `json:"growthWeight"`
}

type WeightRow struct {
	Grade string `json:"grade"`
	Weights
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProcessCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
	Active      bool   `json:"active"`
}

type GrowthCategory struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Coefficient float64 `json:"coefficient"`
	SortOrder   int     `json:"sortOrder"`
	Active      bool    `json:"active"`
}

type Project struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId,omitempty"`
	Checks     []bool `json:"checks"`
	Level      Level  `json:"level"`
}

type ResultsInput struct {
	Target      *float64 `json:"target,omitempty"`
	Actual      *float64 `json:"actual,omitempty"`
	DirectScore *float64 `json:"directScore,omitempty"`
}

type GrowthInput struct {
	CategoryID string `json:"categoryId"`
	Level      Level  `json:"level"`
}

// Input is the editable part of an evaluation record.
type Input struct {
	Results  ResultsInput `json:"results"`
	Projects []Project    `json:"projects"`
	Growth   GrowthInput  `json:"growth"`
	Comment  string       `json:"comment"`
}

type Scores struct {
	AchievementRate *float64 `json:"achievementRate,omitempty"`
	Results         float64  `json:"resultsScore"`
	Process         float64  `json:"processScore"`
	Growth          float64  `json:"growthScore"`
	Final           float64  `json:"finalScore"`
	Rating          Rating   `json:"rating,omitempty"`
	Complete        bool     `json:"complete"`
}

type Evaluation struct {
	ID          string     `json:"id"`
	PeriodID    string     `json:"periodId"`
	EmployeeID  string     `json:"employeeId"`
	EvaluatorID string     `json:"evaluatorId"`
	JobGrade    string     `json:"jobGrade"`
	Input       Input      `json:"input"`
	Scores      Scores     `json:"scores"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Evaluatee struct {
	EmployeeID     string   `json:"employeeId"`
	EmployeeNumber string   `json:"employeeNumber"`
	Name           string   `json:"name"`
	DepartmentID   string   `json:"departmentId"`
	DepartmentName string   `json:"departmentName"`
	JobGrade       string   `json:"jobGrade"`
	EvaluatorID    string   `json:"evaluatorId"`
	EvaluationID   string   `json:"evaluationId"`
	Status         string   `json:"status"`
	FinalScore     *float64 `json:"finalScore,omitempty"`
	Rating         string   `json:"rating,omitempty"`
	Complete       bool     `json:"complete"`
}

type EvaluateeFilter struct {
	DepartmentID string
	EvaluatorID  string
	Status       string
}

// SheetRow is one evaluation flattened for CSV and PDF exports.
type SheetRow struct {
	PeriodName     string
	EmployeeNumber string
	EmployeeName   string
	DepartmentName string
	JobGrade       string
	Weights        Weights
	Evaluation     Evaluation
}

// Actor is the caller performing an evaluation change.
type Actor struct {
	UserID     string
	EmployeeID string
	IsHR       bool
}
