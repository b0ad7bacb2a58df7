// Package mcpserver exposes read-only directory queries as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hreval/internal/domain/directory"
)

const (
	serverName    = "hreval-directory"
	serverVersion = "1.0.0"
)

// Reader is the read side of the directory client.
type Reader interface {
	ListUsers(ctx context.Context) ([]directory.Entry, error)
	GetUser(ctx context.Context, uid string) (directory.Entry, error)
	SearchUsers(ctx context.Context, query string) ([]directory.Entry, error)
	UserExists(ctx context.Context, uid string) (bool, error)
}

type ListUsersInput struct{}

type UIDInput struct {
	UID string `json:"uid" jsonschema:"directory uid of the person"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"substring matched against uid, cn, mail and sn"`
}

type UsersResult struct {
	Users []directory.Entry `json:"users" jsonschema:"matching directory entries"`
	Count int               `json:"count" jsonschema:"number of entries returned"`
}

type UserResult struct {
	User directory.Entry `json:"user" jsonschema:"the directory entry"`
}

type ExistsResult struct {
	UID    string `json:"uid" jsonschema:"the uid that was checked"`
	Exists bool   `json:"exists" jsonschema:"whether an entry with this uid exists"`
}

// New builds the MCP server with every directory tool registered.
func New(dir Reader) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ldap_list_users",
		Description: "Lists every person entry in the directory",
	}, listUsers(dir))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ldap_get_user",
		Description: "Fetches one directory entry by uid",
	}, getUser(dir))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ldap_search_users",
		Description: "Searches directory entries by uid, name or mail",
	}, searchUsers(dir))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ldap_user_exists",
		Description: "Reports whether a directory entry with the uid exists",
	}, userExists(dir))

	return server
}

// HTTPHandler serves server over the streamable HTTP transport. All
// sessions share the one server.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// RunStdio serves on stdin/stdout until ctx is cancelled or the client
// disconnects.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func listUsers(dir Reader) mcp.ToolHandlerFor[ListUsersInput, UsersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListUsersInput) (*mcp.CallToolResult, UsersResult, error) {
		entries, err := dir.ListUsers(ctx)
		if err != nil {
			return nil, UsersResult{}, toolError("list users", err)
		}
		return nil, usersResult(entries), nil
	}
}

func getUser(dir Reader) mcp.ToolHandlerFor[UIDInput, UserResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UIDInput) (*mcp.CallToolResult, UserResult, error) {
		entry, err := dir.GetUser(ctx, strings.TrimSpace(input.UID))
		if err != nil {
			return nil, UserResult{}, toolError("get user", err)
		}
		return nil, UserResult{User: entry}, nil
	}
}

func searchUsers(dir Reader) mcp.ToolHandlerFor[SearchInput, UsersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, UsersResult, error) {
		entries, err := dir.SearchUsers(ctx, input.Query)
		if err != nil {
			return nil, UsersResult{}, toolError("search users", err)
		}
		return nil, usersResult(entries), nil
	}
}

func userExists(dir Reader) mcp.ToolHandlerFor[UIDInput, ExistsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UIDInput) (*mcp.CallToolResult, ExistsResult, error) {
		uid := strings.TrimSpace(input.UID)
		exists, err := dir.UserExists(ctx, uid)
		if err != nil {
			return nil, ExistsResult{}, toolError("check user", err)
		}
		return nil, ExistsResult{UID: uid, Exists: exists}, nil
	}
}

func usersResult(entries []directory.Entry) UsersResult {
	if entries == nil {
		entries = []directory.Entry{}
	}
	return UsersResult{Users: entries, Count: len(entries)}
}

// toolError keeps LDAP transport details out of tool results.
func toolError(op string, err error) error {
	switch {
	case errors.Is(err, directory.ErrUserNotFound),
		errors.Is(err, directory.ErrInvalidUID),
		errors.Is(err, directory.ErrUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	default:
		slog.Error("mcp directory tool failed", "op", op, "err", err)
		return fmt.Errorf("%s: directory request failed", op)
	}
}
