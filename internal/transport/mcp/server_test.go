package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hreval/internal/domain/directory"
)

type fakeDirectory struct {
	users     []directory.Entry
	searchErr error
}

func (f *fakeDirectory) ListUsers(context.Context) ([]directory.Entry, error) {
	return f.users, nil
}

func (f *fakeDirectory) GetUser(_ context.Context, uid string) (directory.Entry, error) {
	if !directory.ValidUID(uid) {
		return directory.Entry{}, directory.ErrInvalidUID
	}
	for _, u := range f.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return directory.Entry{}, directory.ErrUserNotFound
}

func (f *fakeDirectory) SearchUsers(_ context.Context, query string) ([]directory.Entry, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []directory.Entry
	for _, u := range f.users {
		if strings.Contains(u.UID, query) || strings.Contains(u.Mail, query) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeDirectory) UserExists(ctx context.Context, uid string) (bool, error) {
	_, err := f.GetUser(ctx, uid)
	if errors.Is(err, directory.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func connect(t *testing.T, dir Reader) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := New(dir).Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("connect server: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func call(t *testing.T, session *mcp.ClientSession, name string, args map[string]any, out any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	if out != nil && !result.IsError {
		raw, err := json.Marshal(result.StructuredContent)
		if err != nil {
			t.Fatalf("marshal structured content: %v", err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode structured content: %v", err)
		}
	}
	return result
}

func sampleDirectory() *fakeDirectory {
	return &fakeDirectory{users: []directory.Entry{
		{UID: "aiko", CN: "Aiko Tanaka", SN: "Tanaka", Mail: "aiko@example.com"},
		{UID: "ken", CN: "Ken Sato", SN: "Sato", Mail: "ken@example.com"},
	}}
}

func TestListsTools(t *testing.T) {
	session := connect(t, sampleDirectory())
	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"ldap_list_users", "ldap_get_user", "ldap_search_users", "ldap_user_exists"} {
		if !names[want] {
			t.Fatalf("missing tool %s in %v", want, names)
		}
	}
}

func TestDirectoryTools(t *testing.T) {
	session := connect(t, sampleDirectory())

	var users UsersResult
	call(t, session, "ldap_list_users", map[string]any{}, &users)
	if users.Count != 2 || len(users.Users) != 2 {
		t.Fatalf("expected two users, got %+v", users)
	}

	var found UsersResult
	call(t, session, "ldap_search_users", map[string]any{"query": "ken@"}, &found)
	if found.Count != 1 || found.Users[0].UID != "ken" {
		t.Fatalf("unexpected search result %+v", found)
	}

	var user UserResult
	call(t, session, "ldap_get_user", map[string]any{"uid": "aiko"}, &user)
	if user.User.CN != "Aiko Tanaka" {
		t.Fatalf("unexpected user %+v", user)
	}

	var exists ExistsResult
	call(t, session, "ldap_user_exists", map[string]any{"uid": "ghost"}, &exists)
	if exists.Exists || exists.UID != "ghost" {
		t.Fatalf("expected ghost to be missing, got %+v", exists)
	}
}

func TestToolErrors(t *testing.T) {
	dir := sampleDirectory()
	session := connect(t, dir)

	result := call(t, session, "ldap_get_user", map[string]any{"uid": "ghost"}, nil)
	if !result.IsError {
		t.Fatal("expected a tool error for a missing user")
	}

	dir.searchErr = errors.New("ldap search: dial tcp 10.0.0.5:389: connection refused")
	result = call(t, session, "ldap_search_users", map[string]any{"query": "a"}, nil)
	if !result.IsError {
		t.Fatal("expected a tool error when the directory fails")
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && strings.Contains(text.Text, "10.0.0.5") {
			t.Fatalf("tool error leaked transport detail: %s", text.Text)
		}
	}
}
