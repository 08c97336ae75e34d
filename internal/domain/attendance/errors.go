package attendance

import "errors"

var (
	ErrNotFound         = errors.New("attendance record not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)
