package core

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// CreateDepartment enforces name uniqueness with an exact, case-sensitive
// match before inserting. The unique constraint closes the remaining race.
func (s *Service) CreateDepartment(ctx context.Context, d Department) (Department, error) {
	taken, err := s.store.DepartmentNameExists(ctx, d.Name, 0)
	if err != nil {
		return Department{}, err
	}
	if taken {
		return Department{}, ErrNameTaken
	}
	return s.store.InsertDepartment(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (Department, error) {
	return s.store.GetDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, filter DepartmentFilter) (int, []Department, error) {
	total, err := s.store.CountDepartments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.store.ListDepartments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, input DepartmentUpdate) (Department, error) {
	current, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return Department{}, err
	}
	if input.Name != nil && *input.Name != current.Name {
		taken, err := s.store.DepartmentNameExists(ctx, *input.Name, id)
		if err != nil {
			return Department{}, err
		}
		if taken {
			return Department{}, ErrNameTaken
		}
		current.Name = *input.Name
	}
	if input.Description != nil {
		current.Description = *input.Description
	}
	return s.store.UpdateDepartment(ctx, current)
}

// DeleteDepartment refuses to remove a department that still owns employees;
// deletion never cascades.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	if _, err := s.store.GetDepartment(ctx, id); err != nil {
		return err
	}
	count, err := s.store.EmployeeCountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentNotEmpty
	}
	return s.store.DeleteDepartment(ctx, id)
}

func (s *Service) DepartmentStatistics(ctx context.Context, id int64) (DepartmentStats, error) {
	return s.store.DepartmentStats(ctx, id)
}

func (s *Service) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	if _, err := s.store.GetDepartment(ctx, e.DepartmentID); err != nil {
		return Employee{}, err
	}
	if e.UserID != nil {
		exists, err := s.store.UserExists(ctx, *e.UserID)
		if err != nil {
			return Employee{}, err
		}
		if !exists {
			return Employee{}, ErrUserNotFound
		}
		linked, err := s.store.UserLinked(ctx, *e.UserID, 0)
		if err != nil {
			return Employee{}, err
		}
		if linked {
			return Employee{}, ErrUserAlreadyLinked
		}
	}
	return s.store.InsertEmployee(ctx, e)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) (int, []Employee, error) {
	total, err := s.store.CountEmployees(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.store.ListEmployees(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, input EmployeeUpdate) (Employee, error) {
	current, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if input.DepartmentID != nil {
		if _, err := s.store.GetDepartment(ctx, *input.DepartmentID); err != nil {
			return Employee{}, err
		}
		current.DepartmentID = *input.DepartmentID
	}
	if input.FirstName != nil {
		current.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		current.LastName = *input.LastName
	}
	if input.DateOfBirth != nil {
		current.DateOfBirth = input.DateOfBirth
	}
	if input.Gender != nil {
		current.Gender = *input.Gender
	}
	if input.Phone != nil {
		current.Phone = *input.Phone
	}
	if input.Address != nil {
		current.Address = *input.Address
	}
	if input.HireDate != nil {
		current.HireDate = *input.HireDate
	}
	if input.Position != nil {
		current.Position = *input.Position
	}
	if input.BaseSalary != nil {
		current.BaseSalary = *input.BaseSalary
	}
	return s.store.UpdateEmployee(ctx, current)
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.store.DeleteEmployee(ctx, id)
}
