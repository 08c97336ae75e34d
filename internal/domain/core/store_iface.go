package core

import "context"

type StoreAPI interface {
	InsertDepartment(ctx context.Context, d Department) (Department, error)
	GetDepartment(ctx context.Context, id int64) (Department, error)
	CountDepartments(ctx context.Context, filter DepartmentFilter) (int, error)
	ListDepartments(ctx context.Context, filter DepartmentFilter) ([]Department, error)
	UpdateDepartment(ctx context.Context, d Department) (Department, error)
	DeleteDepartment(ctx context.Context, id int64) error
	DepartmentNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	EmployeeCountByDepartment(ctx context.Context, departmentID int64) (int, error)
	DepartmentStats(ctx context.Context, id int64) (DepartmentStats, error)

	InsertEmployee(ctx context.Context, e Employee) (Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	CountEmployees(ctx context.Context, filter EmployeeFilter) (int, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) (Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	UserExists(ctx context.Context, userID int64) (bool, error)
	UserLinked(ctx context.Context, userID, excludeEmployeeID int64) (bool, error)
}
