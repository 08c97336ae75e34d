package core

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrNameTaken          = errors.New("department with this name already exists")
	ErrDepartmentNotEmpty = errors.New("department still has employees")
	ErrEmployeeHasRecords = errors.New("employee still has payroll or attendance records")
	ErrUserNotFound       = errors.New("linked user not found")
	ErrUserAlreadyLinked  = errors.New("user is already linked to an employee")
)
