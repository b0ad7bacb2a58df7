package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error)
	GetAuthUser(ctx context.Context, userID string) (AuthUser, error)
	UpdateLastLogin(ctx context.Context, userID string) error

	CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error
	SessionValid(ctx context.Context, userID, tokenHash string) (bool, error)
	RotateSession(ctx context.Context, userID, oldHash, newHash string, expires time.Time) error
	RevokeSession(ctx context.Context, userID, tokenHash string) error
	RevokeUserSessions(ctx context.Context, userID string) error

	UpdateMFASecret(ctx context.Context, userID string, secretEnc []byte) error
	SetMFAEnabled(ctx context.Context, userID string, enabled bool) error

	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
	RolePermissions(ctx context.Context, roleID string) ([]string, error)
	RoleIDByName(ctx context.Context, tenantID, name string) (string, error)

	ListUsers(ctx context.Context, tenantID string) ([]User, error)
	GetUser(ctx context.Context, tenantID, userID string) (User, error)
	CreateUser(ctx context.Context, tenantID, email, passwordHash, roleID string) (string, error)
	UpdateUserRole(ctx context.Context, tenantID, userID, roleID string) error
	SetUserStatus(ctx context.Context, tenantID, userID, status string) error
	UpdateUserPassword(ctx context.Context, tenantID, userID, hash string) error
}
