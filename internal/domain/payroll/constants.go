package payroll

// Status is the payroll lifecycle state. Transitions are one-directional:
// pending -> processed -> paid.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusPaid      Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusPaid:
		return true
	}
	return false
}
