package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hreval/internal/app/server"
	"hreval/internal/domain/evaluation"
	"hreval/internal/platform/config"
	"hreval/internal/platform/db"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type journey struct {
	t      *testing.T
	client *http.Client
	base   string
	token  string
	pool   *pgxpool.Pool
	svcs   *server.Services
}

func newJourney(t *testing.T) *journey {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Environment:        "test",
		DefaultLocale:      "en",
		SeedTenantName:     "Test Tenant",
		SeedAdminEmail:     "hr@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := db.Migrate(ctx, pool, os.DirFS("../../../../migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svcs, err := server.NewServices(cfg, pool)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	ts := httptest.NewServer(server.NewRouter(cfg, svcs, pool))
	t.Cleanup(ts.Close)

	j := &journey{t: t, client: ts.Client(), base: ts.URL + "/api/v1", pool: pool, svcs: svcs}
	var login struct {
		Token string `json:"token"`
	}
	j.call(http.MethodPost, "/auth/login", map[string]string{"email": cfg.SeedAdminEmail, "password": cfg.SeedAdminPassword}, http.StatusOK, &login)
	j.token = login.Token
	return j
}

func (j *journey) raw(method, path string, body any) *http.Response {
	j.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			j.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, j.base+path, reader)
	if err != nil {
		j.t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if j.token != "" {
		req.Header.Set("Authorization", "Bearer "+j.token)
	}
	resp, err := j.client.Do(req)
	if err != nil {
		j.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (j *journey) call(method, path string, body any, wantStatus int, out any) {
	j.t.Helper()
	resp := j.raw(method, path, body)
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		j.t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if resp.StatusCode != wantStatus {
		j.t.Fatalf("%s %s: expected %d, got %d (%+v)", method, path, wantStatus, resp.StatusCode, env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			j.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}

func TestEvaluationJourney(t *testing.T) {
	j := newJourney(t)
	stamp := time.Now().UnixNano()

	var emp struct {
		ID string `json:"id"`
	}
	number := fmt.Sprintf("J-%d", stamp)
	j.call(http.MethodPost, "/org/employees", map[string]string{
		"employeeNumber": number,
		"firstName":      "Journey",
		"lastName":       "Tester",
		"jobGrade":       "G1",
	}, http.StatusCreated, &emp)

	var growth []struct {
		ID string `json:"id"`
	}
	j.call(http.MethodGet, "/master/growth-categories", nil, http.StatusOK, &growth)
	if len(growth) == 0 {
		t.Fatal("expected seeded growth categories")
	}

	var period struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	j.call(http.MethodPost, "/evaluation/periods", map[string]any{
		"name":       fmt.Sprintf("Journey %d", stamp),
		"startDate":  "2026-04-01",
		"endDate":    "2026-09-30",
		"resultsMin": 1,
		"resultsMax": 5,
	}, http.StatusCreated, &period)
	j.call(http.MethodPost, "/evaluation/periods/"+period.ID+"/transition", map[string]string{"status": "active"}, http.StatusOK, &period)
	if period.Status != "active" {
		t.Fatalf("expected active period, got %s", period.Status)
	}

	var evaluatees []struct {
		EmployeeID   string `json:"employeeId"`
		EvaluationID string `json:"evaluationId"`
	}
	j.call(http.MethodGet, "/evaluation/periods/"+period.ID+"/evaluatees", nil, http.StatusOK, &evaluatees)
	var evaluationID string
	for _, e := range evaluatees {
		if e.EmployeeID == emp.ID {
			evaluationID = e.EvaluationID
		}
	}
	if evaluationID == "" {
		t.Fatal("expected an evaluation record for the new employee")
	}

	var ev struct {
		Status string `json:"status"`
		Scores struct {
			Complete bool   `json:"complete"`
			Rating   string `json:"rating"`
		} `json:"scores"`
	}
	j.call(http.MethodPut, "/evaluation/evaluations/"+evaluationID+"/draft", map[string]any{
		"results":  map[string]any{"directScore": 4.5},
		"projects": []map[string]any{{"name": "Migration", "checks": []bool{true, true, true, true}, "level": "T3"}},
		"growth":   map[string]any{"categoryId": growth[0].ID, "level": "T2"},
		"comment":  "steady quarter",
	}, http.StatusOK, &ev)
	if !ev.Scores.Complete || ev.Scores.Rating == "" {
		t.Fatalf("expected a complete, rated draft: %+v", ev)
	}

	j.call(http.MethodPost, "/evaluation/evaluations/"+evaluationID+"/submit", nil, http.StatusOK, &ev)
	if ev.Status != "submitted" {
		t.Fatalf("expected submitted, got %s", ev.Status)
	}
	j.call(http.MethodPost, "/evaluation/evaluations/"+evaluationID+"/confirm", nil, http.StatusConflict, nil)

	j.call(http.MethodPost, "/evaluation/periods/"+period.ID+"/transition", map[string]string{"status": "review"}, http.StatusOK, &period)
	j.call(http.MethodPost, "/evaluation/evaluations/"+evaluationID+"/confirm", nil, http.StatusOK, &ev)
	if ev.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", ev.Status)
	}

	resp := j.raw(http.MethodGet, "/evaluation/periods/"+period.ID+"/export.csv", nil)
	csv, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(csv), number) {
		t.Fatalf("expected export to include %s, got %d %q", number, resp.StatusCode, csv)
	}

	var summary struct {
		Status struct {
			Confirmed int `json:"confirmed"`
		} `json:"status"`
		Ratings map[string]int `json:"ratings"`
	}
	j.call(http.MethodGet, "/reports/periods/"+period.ID+"/summary", nil, http.StatusOK, &summary)
	if summary.Status.Confirmed != 1 || summary.Ratings[ev.Scores.Rating] != 1 {
		t.Fatalf("unexpected period summary %+v", summary)
	}

	var events []struct {
		EntityID string `json:"entityId"`
	}
	j.call(http.MethodGet, "/audit/events?action=evaluation.confirm", nil, http.StatusOK, &events)
	found := false
	for _, e := range events {
		found = found || e.EntityID == evaluationID
	}
	if !found {
		t.Fatal("expected an audit event for the confirmation")
	}
}

func TestAnonymousRequestRejected(t *testing.T) {
	j := newJourney(t)
	j.token = ""
	j.call(http.MethodGet, "/evaluation/periods", nil, http.StatusUnauthorized, nil)
}

func TestUngradedEmployeeUsesDefaultWeights(t *testing.T) {
	j := newJourney(t)
	stamp := time.Now().UnixNano()

	var emp struct {
		ID string `json:"id"`
	}
	j.call(http.MethodPost, "/org/employees", map[string]string{
		"employeeNumber": fmt.Sprintf("U-%d", stamp),
		"firstName":      "Ungraded",
		"lastName":       "Tester",
		"jobGrade":       "G9",
	}, http.StatusCreated, &emp)

	var period struct {
		ID string `json:"id"`
	}
	j.call(http.MethodPost, "/evaluation/periods", map[string]any{
		"name":      fmt.Sprintf("Ungraded %d", stamp),
		"startDate": "2026-10-01",
		"endDate":   "2027-03-31",
	}, http.StatusCreated, &period)
	j.call(http.MethodPost, "/evaluation/periods/"+period.ID+"/transition", map[string]string{"status": "active"}, http.StatusOK, nil)
	j.call(http.MethodGet, "/evaluation/periods/not-a-uuid", nil, http.StatusNotFound, nil)

	var evaluatees []struct {
		EmployeeID   string `json:"employeeId"`
		EvaluationID string `json:"evaluationId"`
	}
	j.call(http.MethodGet, "/evaluation/periods/"+period.ID+"/evaluatees", nil, http.StatusOK, &evaluatees)
	var evaluationID string
	for _, e := range evaluatees {
		if e.EmployeeID == emp.ID {
			evaluationID = e.EvaluationID
		}
	}
	if evaluationID == "" {
		t.Fatal("expected an evaluation record for the new employee")
	}

	var ev struct {
		Scores struct {
			Growth float64 `json:"growthScore"`
			Final  float64 `json:"finalScore"`
		} `json:"scores"`
	}
	j.call(http.MethodPut, "/evaluation/evaluations/"+evaluationID+"/draft", map[string]any{
		"results":  map[string]any{"directScore": 4},
		"projects": []map[string]any{{"name": "Audit", "checks": []bool{true, true}, "level": "T3"}},
		"growth":   map[string]any{"categoryId": "g1", "level": "T2"},
	}, http.StatusOK, &ev)
	if ev.Scores.Growth != 0 || ev.Scores.Final == 0 {
		t.Fatalf("expected growth 0 and a partial final score, got %+v", ev.Scores)
	}

	var tenantID string
	if err := j.pool.QueryRow(context.Background(), "SELECT tenant_id::text FROM evaluations WHERE id = $1", evaluationID).Scan(&tenantID); err != nil {
		t.Fatalf("tenant lookup: %v", err)
	}
	rows, err := j.svcs.Evaluation.ListSheetRows(context.Background(), tenantID, period.ID)
	if err != nil {
		t.Fatalf("sheet rows: %v", err)
	}
	want := db.DefaultWeights[0].Weights
	if want.Results == 0 {
		t.Fatal("expected seeded default weights")
	}
	var checked bool
	for _, row := range rows {
		if row.Evaluation.ID != evaluationID {
			continue
		}
		checked = true
		if row.Weights != want {
			t.Fatalf("expected sheet to show %s weights %+v, got %+v", evaluation.DefaultWeightGrade, want, row.Weights)
		}
	}
	if !checked {
		t.Fatal("expected a sheet row for the new employee")
	}
}
