package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (s *Store) ListDepartments(ctx context.Context, tenantID string) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, d.code, COALESCE(d.parent_id::text, ''), d.created_at,
           (SELECT COUNT(1) FROM employees e WHERE e.department_id = d.id AND e.status = 'active')
    FROM departments d
    WHERE d.tenant_id = $1
    ORDER BY d.name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.Code, &dep.ParentID, &dep.CreatedAt, &dep.EmployeeCount); err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, tenantID, departmentID string) (Department, error) {
	var dep Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, code, COALESCE(parent_id::text, ''), created_at
    FROM departments
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, departmentID).Scan(&dep.ID, &dep.Name, &dep.Code, &dep.ParentID, &dep.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrDepartmentNotFound
	}
	return dep, err
}

func (s *Store) CreateDepartment(ctx context.Context, tenantID string, dep Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (tenant_id, name, code, parent_id)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, tenantID, dep.Name, dep.Code, nullIfEmpty(dep.ParentID)).Scan(&id)
	if err != nil {
		return "", mapWriteErr(err)
	}
	return id, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, tenantID string, dep Department) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments SET name = $3, code = $4, parent_id = $5
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, dep.ID, dep.Name, dep.Code, nullIfEmpty(dep.ParentID))
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (s *Store) DepartmentHasEmployees(ctx context.Context, tenantID, departmentID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE tenant_id = $1 AND department_id = $2
  `, tenantID, departmentID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, tenantID, departmentID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE tenant_id = $1 AND id = $2", tenantID, departmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

const employeeColumns = `
           id, COALESCE(user_id::text, ''), employee_number, first_name, last_name, email, job_grade,
           COALESCE(department_id::text, ''), COALESCE(manager_id::text, ''), ldap_uid, status,
           hired_at, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email, &emp.JobGrade,
		&emp.DepartmentID, &emp.ManagerID, &emp.LDAPUID, &emp.Status, &emp.HiredAt, &emp.CreatedAt, &emp.UpdatedAt)
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context, tenantID string, filter EmployeeFilter) ([]Employee, error) {
	query := "SELECT" + employeeColumns + " FROM employees WHERE tenant_id = $1"
	args := []any{tenantID}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(" AND department_id::text = $%d", len(args))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		query += fmt.Sprintf(" AND manager_id::text = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (employee_number ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			len(args), len(args), len(args), len(args))
	}
	query += " ORDER BY employee_number"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT"+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT"+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND user_id = $2
  `, tenantID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) CreateEmployee(ctx context.Context, tenantID string, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (tenant_id, user_id, employee_number, first_name, last_name, email, job_grade,
                           department_id, manager_id, ldap_uid, status, hired_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, tenantID, nullIfEmpty(emp.UserID), emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.JobGrade,
		nullIfEmpty(emp.DepartmentID), nullIfEmpty(emp.ManagerID), emp.LDAPUID, emp.Status, emp.HiredAt).Scan(&id)
	if err != nil {
		return "", mapWriteErr(err)
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, tenantID string, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET user_id = $3, employee_number = $4, first_name = $5, last_name = $6, email = $7, job_grade = $8,
        department_id = $9, manager_id = $10, ldap_uid = $11, status = $12, hired_at = $13, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, emp.ID, nullIfEmpty(emp.UserID), emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.JobGrade,
		nullIfEmpty(emp.DepartmentID), nullIfEmpty(emp.ManagerID), emp.LDAPUID, emp.Status, emp.HiredAt)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) SetEmployeeStatus(ctx context.Context, tenantID, employeeID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
