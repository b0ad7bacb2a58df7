package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/evaluation"
	"hreval/internal/platform/config"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefaultWeights are seeded for the fallback grade and the standard grades.
var DefaultWeights = []evaluation.WeightRow{
	{Grade: evaluation.DefaultWeightGrade, Weights: evaluation.Weights{Results: 30, Process: 40, Growth: 30}},
	{Grade: "G1", Weights: evaluation.Weights{Results: 20, Process: 40, Growth: 40}},
	{Grade: "G2", Weights: evaluation.Weights{Results: 30, Process: 40, Growth: 30}},
	{Grade: "G3", Weights: evaluation.Weights{Results: 40, Process: 40, Growth: 20}},
	{Grade: "G4", Weights: evaluation.Weights{Results: 50, Process: 30, Growth: 20}},
}

var DefaultProcessCategories = []evaluation.ProcessCategory{
	{Name: "Business improvement", Description: "Process or workflow improvements", SortOrder: 1},
	{Name: "Project delivery", Description: "Cross-team projects and launches", SortOrder: 2},
	{Name: "Customer work", Description: "Customer facing initiatives", SortOrder: 3},
}

var DefaultGrowthCategories = []evaluation.GrowthCategory{
	{Name: "Technical skills", Description: "Certifications and new technical skills", Coefficient: 1.0, SortOrder: 1},
	{Name: "Leadership", Description: "Mentoring and leading others", Coefficient: 1.2, SortOrder: 2},
	{Name: "Self development", Description: "Self-directed learning", Coefficient: 0.8, SortOrder: 3},
}

// Seed creates the tenant, permissions, roles, admin users and master data.
// It is idempotent and runs in one transaction.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tenantID, err := ensureTenant(ctx, tx, cfg.SeedTenantName)
		if err != nil {
			return fmt.Errorf("seed tenant: %w", err)
		}
		if err := ensurePermissions(ctx, tx); err != nil {
			return fmt.Errorf("seed permissions: %w", err)
		}
		roleIDs, err := ensureRoles(ctx, tx, tenantID)
		if err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
		if err := ensureRolePermissions(ctx, tx, roleIDs); err != nil {
			return fmt.Errorf("seed role permissions: %w", err)
		}
		if err := ensureUser(ctx, tx, tenantID, roleIDs[auth.RoleHR], cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		if err := ensureUser(ctx, tx, tenantID, roleIDs[auth.RoleSystemAdmin], cfg.SeedSystemAdminEmail, cfg.SeedSystemAdminPassword); err != nil {
			return fmt.Errorf("seed system admin: %w", err)
		}
		if err := ensureMasterData(ctx, tx, tenantID); err != nil {
			return fmt.Errorf("seed master data: %w", err)
		}
		slog.Info("seed complete", "tenant", cfg.SeedTenantName)
		return nil
	})
}

func ensureTenant(ctx context.Context, q querier, name string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO tenants (name) VALUES ($1)
    ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, name).Scan(&id)
	return id, err
}

func ensurePermissions(ctx context.Context, q querier) error {
	for _, perm := range auth.DefaultPermissions {
		if _, err := q.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm); err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, q querier, tenantID string) (map[string]string, error) {
	roleIDs := map[string]string{}
	for roleName := range auth.RolePermissions {
		var id string
		err := q.QueryRow(ctx, `
      INSERT INTO roles (tenant_id, name) VALUES ($1, $2)
      ON CONFLICT (tenant_id, name) DO UPDATE SET name = EXCLUDED.name
      RETURNING id
    `, tenantID, roleName).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[roleName] = id
	}
	return roleIDs, nil
}

func ensureRolePermissions(ctx context.Context, q querier, roleIDs map[string]string) error {
	for roleName, perms := range auth.RolePermissions {
		tag, err := q.Exec(ctx, `
      INSERT INTO role_permissions (role_id, permission_id)
      SELECT $1, id FROM permissions WHERE key = ANY($2)
      ON CONFLICT DO NOTHING
    `, roleIDs[roleName], perms)
		if err != nil {
			return err
		}
		slog.Debug("role permissions seeded", "role", roleName, "added", tag.RowsAffected())
	}
	return nil
}

// ensureUser creates the user when both email and password are set and the
// email is free. Existing users are never modified.
func ensureUser(ctx context.Context, q querier, tenantID, roleID, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
    INSERT INTO users (tenant_id, email, password_hash, role_id)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (tenant_id, email) DO NOTHING
  `, tenantID, email, hash, roleID)
	return err
}

func ensureMasterData(ctx context.Context, q querier, tenantID string) error {
	for _, row := range DefaultWeights {
		if _, err := q.Exec(ctx, `
      INSERT INTO evaluation_weights (tenant_id, grade, results_weight, process_weight, growth_weight)
      VALUES ($1, $2, $3, $4, $5)
      ON CONFLICT (tenant_id, grade) DO NOTHING
    `, tenantID, row.Grade, row.Results, row.Process, row.Growth); err != nil {
			return err
		}
	}
	for _, c := range DefaultProcessCategories {
		if _, err := q.Exec(ctx, `
      INSERT INTO process_categories (tenant_id, name, description, sort_order)
      VALUES ($1, $2, $3, $4)
      ON CONFLICT (tenant_id, name) DO NOTHING
    `, tenantID, c.Name, c.Description, c.SortOrder); err != nil {
			return err
		}
	}
	for _, c := range DefaultGrowthCategories {
		if _, err := q.Exec(ctx, `
      INSERT INTO growth_categories (tenant_id, name, description, coefficient, sort_order)
      VALUES ($1, $2, $3, $4, $5)
      ON CONFLICT (tenant_id, name) DO NOTHING
    `, tenantID, c.Name, c.Description, c.Coefficient, c.SortOrder); err != nil {
			return err
		}
	}
	return nil
}
