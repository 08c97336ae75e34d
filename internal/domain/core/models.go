package core

import "time"

type Department struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Employee struct {
	ID           int64       `json:"id"`
	UserID       *int64      `json:"userId,omitempty"`
	DepartmentID int64       `json:"departmentId"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	DateOfBirth  *time.Time  `json:"dateOfBirth,omitempty"`
	Gender       string      `json:"gender,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Address      string      `json:"address,omitempty"`
	HireDate     time.Time   `json:"hireDate"`
	Position     string      `json:"position"`
	BaseSalary   float64     `json:"baseSalary"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`
	Department   *Department `json:"department,omitempty"`
}

// DepartmentStats is computed on read, never persisted.
type DepartmentStats struct {
	DepartmentName string  `json:"departmentName"`
	TotalEmployees int     `json:"totalEmployees"`
	TotalSalary    float64 `json:"totalSalary"`
	AverageSalary  float64 `json:"averageSalary"`
}

type DepartmentUpdate struct {
	Name        *string
	Description *string
}

type EmployeeUpdate struct {
	FirstName    *string
	LastName     *string
	DateOfBirth  *time.Time
	Gender       *string
	Phone        *string
	Address      *string
	HireDate     *time.Time
	Position     *string
	BaseSalary   *float64
	DepartmentID *int64
}

type DepartmentFilter struct {
	Search string
	Limit  int
	Skip   int
}

type EmployeeFilter struct {
	Search       string
	DepartmentID *int64
	Limit        int
	Skip         int
}
