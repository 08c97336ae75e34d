package payroll

import (
	"context"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Create verifies the employee reference, period ordering and period
// exclusivity, then persists the record as pending. Net salary is always
// derived server-side; client-supplied values are ignored.
func (s *Service) Create(ctx context.Context, p Payroll) (Payroll, error) {
	exists, err := s.store.EmployeeExists(ctx, p.EmployeeID)
	if err != nil {
		return Payroll{}, err
	}
	if !exists {
		return Payroll{}, ErrEmployeeNotFound
	}
	if p.PayPeriodEnd.Before(p.PayPeriodStart) {
		return Payroll{}, ErrPeriodInverted
	}
	overlap, err := s.store.HasOverlap(ctx, p.EmployeeID, p.PayPeriodStart, p.PayPeriodEnd, 0)
	if err != nil {
		return Payroll{}, err
	}
	if overlap {
		return Payroll{}, ErrPeriodOverlap
	}

	p.Status = StatusPending
	p.NetSalary = NetSalary(p.BaseSalary, p.OvertimePay, p.Deductions, p.Tax)
	p.PaymentDate = nil
	return s.store.Insert(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (Payroll, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) (int, []Payroll, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// Update applies the supplied monetary fields and re-derives net salary.
// Paid records are immutable.
func (s *Service) Update(ctx context.Context, id int64, input Update) (Payroll, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	if current.Status == StatusPaid {
		return Payroll{}, ErrPaidImmutable
	}
	if input.OvertimePay != nil {
		current.OvertimePay = *input.OvertimePay
	}
	if input.Deductions != nil {
		current.Deductions = *input.Deductions
	}
	if input.Tax != nil {
		current.Tax = *input.Tax
	}
	current.NetSalary = NetSalary(current.BaseSalary, current.OvertimePay, current.Deductions, current.Tax)
	return s.store.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == StatusPaid {
		return ErrPaidImmutable
	}
	return s.store.Delete(ctx, id)
}

// Process moves a pending record to processed, recomputing net salary from
// the stored components.
func (s *Service) Process(ctx context.Context, id int64) (Payroll, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	switch current.Status {
	case StatusPending:
	case StatusProcessed, StatusPaid:
		return Payroll{}, ErrNotPending
	default:
		return Payroll{}, ErrNotPending
	}

	current.NetSalary = NetSalary(current.BaseSalary, current.OvertimePay, current.Deductions, current.Tax)
	current.Status = StatusProcessed
	return s.store.Update(ctx, current)
}

// Pay moves a processed record to paid and stamps the payment date.
func (s *Service) Pay(ctx context.Context, id int64) (Payroll, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	switch current.Status {
	case StatusProcessed:
	case StatusPending, StatusPaid:
		return Payroll{}, ErrNotProcessed
	default:
		return Payroll{}, ErrNotProcessed
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	current.Status = StatusPaid
	current.PaymentDate = &today
	return s.store.Update(ctx, current)
}
