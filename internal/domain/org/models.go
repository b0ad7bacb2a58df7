package org

import "time"

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)

type Department struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	ParentID      string    `json:"parentId"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	JobGrade       string     `json:"jobGrade"`
	DepartmentID   string     `json:"departmentId"`
	ManagerID      string     `json:"managerId"`
	LDAPUID        string     `json:"ldapUid"`
	Status         string     `json:"status"`
	HiredAt        *time.Time `json:"hiredAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmployeeFilter struct {
	DepartmentID string
	ManagerID    string
	Status       string
	Query        string
}
