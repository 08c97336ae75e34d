package attendance

import "time"

// Status classifies a single day of attendance.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusHalfDay Status = "half_day"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLeave, StatusHalfDay:
		return true
	}
	return false
}

type Attendance struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employeeId"`
	Date       time.Time  `json:"date"`
	Status     Status     `json:"status"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	WorkHours  *float64   `json:"workHours,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type Update struct {
	Date     *time.Time
	Status   *Status
	CheckIn  *time.Time
	CheckOut *time.Time
	Notes    *string
}

type Filter struct {
	EmployeeID int64
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Skip       int
}
