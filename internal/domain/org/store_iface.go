package org

import "context"

type StoreAPI interface {
	ListDepartments(ctx context.Context, tenantID string) ([]Department, error)
	GetDepartment(ctx context.Context, tenantID, departmentID string) (Department, error)
	CreateDepartment(ctx context.Context, tenantID string, dep Department) (string, error)
	UpdateDepartment(ctx context.Context, tenantID string, dep Department) error
	DepartmentHasEmployees(ctx context.Context, tenantID, departmentID string) (bool, error)
	DeleteDepartment(ctx context.Context, tenantID, departmentID string) error

	ListEmployees(ctx context.Context, tenantID string, filter EmployeeFilter) ([]Employee, error)
	GetEmployee(ctx context.Context, tenantID, employeeID string) (Employee, error)
	GetEmployeeByUserID(ctx context.Context, tenantID, userID string) (Employee, error)
	CreateEmployee(ctx context.Context, tenantID string, emp Employee) (string, error)
	UpdateEmployee(ctx context.Context, tenantID string, emp Employee) error
	SetEmployeeStatus(ctx context.Context, tenantID, employeeID, status string) error
}
