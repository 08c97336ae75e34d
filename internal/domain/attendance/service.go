package attendance

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// applyWorkHours recomputes the derived hours whenever both timestamps are
// present. Any client-supplied value has already been discarded by the
// handlers; this is the single source of the figure.
func applyWorkHours(a *Attendance) {
	if a.CheckIn == nil || a.CheckOut == nil {
		return
	}
	hours := a.CheckOut.Sub(*a.CheckIn).Seconds() / 3600
	a.WorkHours = &hours
}

func (s *Service) Create(ctx context.Context, a Attendance) (Attendance, error) {
	exists, err := s.store.EmployeeExists(ctx, a.EmployeeID)
	if err != nil {
		return Attendance{}, err
	}
	if !exists {
		return Attendance{}, ErrEmployeeNotFound
	}
	a.WorkHours = nil
	applyWorkHours(&a)
	return s.store.Insert(ctx, a)
}

func (s *Service) Get(ctx context.Context, employeeID, id int64) (Attendance, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Attendance{}, err
	}
	return s.store.Get(ctx, employeeID, id)
}

func (s *Service) List(ctx context.Context, filter Filter) (int, []Attendance, error) {
	if err := s.requireEmployee(ctx, filter.EmployeeID); err != nil {
		return 0, nil, err
	}
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

func (s *Service) Update(ctx context.Context, employeeID, id int64, input Update) (Attendance, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Attendance{}, err
	}
	current, err := s.store.Get(ctx, employeeID, id)
	if err != nil {
		return Attendance{}, err
	}
	if input.Date != nil {
		current.Date = *input.Date
	}
	if input.Status != nil {
		current.Status = *input.Status
	}
	if input.CheckIn != nil {
		current.CheckIn = input.CheckIn
	}
	if input.CheckOut != nil {
		current.CheckOut = input.CheckOut
	}
	if input.Notes != nil {
		current.Notes = *input.Notes
	}
	applyWorkHours(&current)
	return s.store.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, employeeID, id int64) error {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return err
	}
	return s.store.Delete(ctx, employeeID, id)
}

func (s *Service) requireEmployee(ctx context.Context, employeeID int64) error {
	exists, err := s.store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEmployeeNotFound
	}
	return nil
}
