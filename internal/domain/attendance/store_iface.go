package attendance

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, a Attendance) (Attendance, error)
	Get(ctx context.Context, employeeID, id int64) (Attendance, error)
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter) ([]Attendance, error)
	Update(ctx context.Context, a Attendance) (Attendance, error)
	Delete(ctx context.Context, employeeID, id int64) error
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
}
