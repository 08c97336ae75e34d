package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, p Payroll) (Payroll, error)
	Get(ctx context.Context, id int64) (Payroll, error)
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter) ([]Payroll, error)
	Update(ctx context.Context, p Payroll) (Payroll, error)
	Delete(ctx context.Context, id int64) error
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	HasOverlap(ctx context.Context, employeeID int64, start, end time.Time, excludeID int64) (bool, error)
	PayslipData(ctx context.Context, id int64) (PayslipData, error)
}
