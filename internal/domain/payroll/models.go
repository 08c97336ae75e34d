package payroll

import "time"

type Payroll struct {
	ID             int64      `json:"id"`
	EmployeeID     int64      `json:"employeeId"`
	PayPeriodStart time.Time  `json:"payPeriodStart"`
	PayPeriodEnd   time.Time  `json:"payPeriodEnd"`
	BaseSalary     float64    `json:"baseSalary"`
	OvertimePay    float64    `json:"overtimePay"`
	Deductions     float64    `json:"deductions"`
	Tax            float64    `json:"tax"`
	NetSalary      float64    `json:"netSalary"`
	Status         Status     `json:"status"`
	PaymentDate    *time.Time `json:"paymentDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type Update struct {
	OvertimePay *float64
	Deductions  *float64
	Tax         *float64
}

type Filter struct {
	EmployeeID *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Status     Status
	Limit      int
	Skip       int
}
