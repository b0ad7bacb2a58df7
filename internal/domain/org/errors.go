package org

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentNotEmpty = errors.New("department still has employees")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidEmployee    = errors.New("employee number and name are required")
	ErrSelfManager        = errors.New("employee cannot manage themselves")
	ErrDuplicate          = errors.New("record already exists")
)
