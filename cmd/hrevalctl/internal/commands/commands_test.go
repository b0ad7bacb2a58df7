package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"hreval/internal/domain/directory"
	"hreval/internal/domain/evaluation"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "hrevalctl", SilenceUsage: true, SilenceErrors: true}
	Register(root)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScoreComplete(t *testing.T) {
	out, err := execute(t, "score",
		"--direct", "5",
		"--project", "4:T4",
		"--growth-level", "t4", "--growth-coefficient", "1.25",
		"--weights", "50,30,20")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var scores evaluation.Scores
	if err := json.Unmarshal([]byte(out), &scores); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !scores.Complete || scores.Final != 5 || scores.Rating != evaluation.RatingS {
		t.Fatalf("unexpected scores %+v", scores)
	}
}

func TestScoreIncompleteHasNoRating(t *testing.T) {
	out, err := execute(t, "score", "--target", "100", "--actual", "100")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var scores evaluation.Scores
	if err := json.Unmarshal([]byte(out), &scores); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scores.Complete || scores.Rating != "" {
		t.Fatalf("expected incomplete record, got %+v", scores)
	}
	if scores.AchievementRate == nil || *scores.AchievementRate != 100 {
		t.Fatalf("expected 100%% achievement, got %v", scores.AchievementRate)
	}
}

func TestScoreRejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"score", "--weights", "50,30"},
		{"score", "--weights", "50,30,30"},
		{"score", "--project", "7:T1"},
		{"score", "--project", "2:T9"},
		{"score", "--project", "nolevel"},
		{"score", "--results-min", "5", "--results-max", "1"},
	}
	for _, args := range cases {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

type fakeDirectory struct {
	directory.Directory
	pingErr error
	users   []directory.Entry
	query   string
}

func (f *fakeDirectory) Ping(context.Context) error { return f.pingErr }

func (f *fakeDirectory) ListUsers(context.Context) ([]directory.Entry, error) {
	return f.users, nil
}

func (f *fakeDirectory) SearchUsers(_ context.Context, query string) ([]directory.Entry, error) {
	f.query = query
	return f.users[:1], nil
}

func useDirectory(t *testing.T, dir directory.Directory) {
	t.Helper()
	prev := newDirectory
	newDirectory = func() (directory.Directory, error) { return dir, nil }
	t.Cleanup(func() { newDirectory = prev })
}

func TestLDAPStatus(t *testing.T) {
	useDirectory(t, &fakeDirectory{})
	out, err := execute(t, "ldap", "status")
	if err != nil || !strings.Contains(out, "available") {
		t.Fatalf("status: %q %v", out, err)
	}

	useDirectory(t, &fakeDirectory{pingErr: errors.New("connection refused")})
	if _, err := execute(t, "ldap", "status"); err == nil {
		t.Fatal("expected unavailable error")
	}
}

func TestLDAPSearch(t *testing.T) {
	dir := &fakeDirectory{users: []directory.Entry{
		{UID: "aiko", CN: "Aiko Tanaka", Mail: "aiko@example.com"},
		{UID: "ken", CN: "Ken Sato", Mail: "ken@example.com"},
	}}
	useDirectory(t, dir)

	out, err := execute(t, "ldap", "search")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "aiko") || !strings.Contains(out, "ken@example.com") {
		t.Fatalf("unexpected listing %q", out)
	}

	out, err = execute(t, "ldap", "search", "aiko")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if dir.query != "aiko" || strings.Contains(out, "Ken Sato") {
		t.Fatalf("unexpected search %q (query %q)", out, dir.query)
	}
}
