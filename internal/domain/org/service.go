package org

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListDepartments(ctx context.Context, tenantID string) ([]Department, error) {
	return s.store.ListDepartments(ctx, tenantID)
}

func (s *Service) GetDepartment(ctx context.Context, tenantID, departmentID string) (Department, error) {
	return s.store.GetDepartment(ctx, tenantID, departmentID)
}

func (s *Service) CreateDepartment(ctx context.Context, tenantID string, dep Department) (string, error) {
	dep.Name = strings.TrimSpace(dep.Name)
	dep.Code = strings.TrimSpace(dep.Code)
	return s.store.CreateDepartment(ctx, tenantID, dep)
}

func (s *Service) UpdateDepartment(ctx context.Context, tenantID string, dep Department) error {
	dep.Name = strings.TrimSpace(dep.Name)
	dep.Code = strings.TrimSpace(dep.Code)
	return s.store.UpdateDepartment(ctx, tenantID, dep)
}

// DeleteDepartment refuses to delete departments that still have employees,
// active or not.
func (s *Service) DeleteDepartment(ctx context.Context, tenantID, departmentID string) error {
	hasEmployees, err := s.store.DepartmentHasEmployees(ctx, tenantID, departmentID)
	if err != nil {
		return err
	}
	if hasEmployees {
		return ErrDepartmentNotEmpty
	}
	return s.store.DeleteDepartment(ctx, tenantID, departmentID)
}

func (s *Service) ListEmployees(ctx context.Context, tenantID string, filter EmployeeFilter) ([]Employee, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.store.ListEmployees(ctx, tenantID, filter)
}

func (s *Service) GetEmployee(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, tenantID, employeeID)
}

func (s *Service) GetEmployeeByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	return s.store.GetEmployeeByUserID(ctx, tenantID, userID)
}

func (s *Service) CreateEmployee(ctx context.Context, tenantID string, emp Employee) (Employee, error) {
	emp = normalizeEmployee(emp)
	if emp.Status == "" {
		emp.Status = EmployeeStatusActive
	}
	if err := validateEmployee(emp); err != nil {
		return Employee{}, err
	}
	id, err := s.store.CreateEmployee(ctx, tenantID, emp)
	if err != nil {
		return Employee{}, err
	}
	return s.store.GetEmployee(ctx, tenantID, id)
}

func (s *Service) UpdateEmployee(ctx context.Context, tenantID string, emp Employee) (Employee, error) {
	emp = normalizeEmployee(emp)
	if emp.ManagerID != "" && emp.ManagerID == emp.ID {
		return Employee{}, ErrSelfManager
	}
	if emp.Status == "" {
		emp.Status = EmployeeStatusActive
	}
	if err := validateEmployee(emp); err != nil {
		return Employee{}, err
	}
	if err := s.store.UpdateEmployee(ctx, tenantID, emp); err != nil {
		return Employee{}, err
	}
	return s.store.GetEmployee(ctx, tenantID, emp.ID)
}

// DeactivateEmployee keeps the record for past evaluations but drops the
// employee from new periods.
func (s *Service) DeactivateEmployee(ctx context.Context, tenantID, employeeID string) error {
	return s.store.SetEmployeeStatus(ctx, tenantID, employeeID, EmployeeStatusInactive)
}

func normalizeEmployee(emp Employee) Employee {
	emp.EmployeeNumber = strings.TrimSpace(emp.EmployeeNumber)
	emp.FirstName = strings.TrimSpace(emp.FirstName)
	emp.LastName = strings.TrimSpace(emp.LastName)
	emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
	emp.JobGrade = strings.ToUpper(strings.TrimSpace(emp.JobGrade))
	emp.LDAPUID = strings.TrimSpace(emp.LDAPUID)
	return emp
}

func validateEmployee(emp Employee) error {
	if emp.EmployeeNumber == "" || emp.FirstName == "" || emp.LastName == "" {
		return ErrInvalidEmployee
	}
	return nil
}
