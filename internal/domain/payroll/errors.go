package payroll

import "errors"

var (
	ErrNotFound         = errors.New("payroll record not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrPeriodInverted   = errors.New("pay period end must not precede start")
	ErrPeriodOverlap    = errors.New("payroll record already exists for this period")
	ErrNotPending       = errors.New("only pending payroll can be processed")
	ErrNotProcessed     = errors.New("only processed payroll can be paid")
	ErrPaidImmutable    = errors.New("paid payroll records are immutable")
	ErrNotRenderable    = errors.New("payslip is only available once payroll is processed")
)
