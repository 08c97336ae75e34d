package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	nextDeptID int64
	nextEmpID  int64
	depts      map[int64]Department
	emps       map[int64]Employee
	users      map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextDeptID: 1,
		nextEmpID:  1,
		depts:      map[int64]Department{},
		emps:       map[int64]Employee{},
		users:      map[int64]bool{},
	}
}

func (f *fakeStore) InsertDepartment(_ context.Context, d Department) (Department, error) {
	for _, existing := range f.depts {
		if existing.Name == d.Name {
			return Department{}, ErrNameTaken
		}
	}
	d.ID = f.nextDeptID
	d.CreatedAt = time.Now()
	f.nextDeptID++
	f.depts[d.ID] = d
	return d, nil
}

func (f *fakeStore) GetDepartment(_ context.Context, id int64) (Department, error) {
	d, ok := f.depts[id]
	if !ok {
		return Department{}, ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeStore) CountDepartments(_ context.Context, _ DepartmentFilter) (int, error) {
	return len(f.depts), nil
}

func (f *fakeStore) ListDepartments(_ context.Context, _ DepartmentFilter) ([]Department, error) {
	out := make([]Department, 0, len(f.depts))
	for _, d := range f.depts {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeStore) UpdateDepartment(_ context.Context, d Department) (Department, error) {
	if _, ok := f.depts[d.ID]; !ok {
		return Department{}, ErrDepartmentNotFound
	}
	now := time.Now()
	d.UpdatedAt = &now
	f.depts[d.ID] = d
	return d, nil
}

func (f *fakeStore) DeleteDepartment(_ context.Context, id int64) error {
	if _, ok := f.depts[id]; !ok {
		return ErrDepartmentNotFound
	}
	delete(f.depts, id)
	return nil
}

func (f *fakeStore) DepartmentNameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, d := range f.depts {
		if d.Name == name && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) EmployeeCountByDepartment(_ context.Context, departmentID int64) (int, error) {
	count := 0
	for _, e := range f.emps {
		if e.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) DepartmentStats(_ context.Context, id int64) (DepartmentStats, error) {
	d, ok := f.depts[id]
	if !ok {
		return DepartmentStats{}, ErrDepartmentNotFound
	}
	stats := DepartmentStats{DepartmentName: d.Name}
	for _, e := range f.emps {
		if e.DepartmentID == id {
			stats.TotalEmployees++
			stats.TotalSalary += e.BaseSalary
		}
	}
	if stats.TotalEmployees > 0 {
		stats.AverageSalary = stats.TotalSalary / float64(stats.TotalEmployees)
	}
	return stats, nil
}

func (f *fakeStore) InsertEmployee(_ context.Context, e Employee) (Employee, error) {
	e.ID = f.nextEmpID
	e.CreatedAt = time.Now()
	f.nextEmpID++
	f.emps[e.ID] = e
	return e, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id int64) (Employee, error) {
	e, ok := f.emps[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeStore) CountEmployees(_ context.Context, _ EmployeeFilter) (int, error) {
	return len(f.emps), nil
}

func (f *fakeStore) ListEmployees(_ context.Context, _ EmployeeFilter) ([]Employee, error) {
	out := make([]Employee, 0, len(f.emps))
	for _, e := range f.emps {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) UpdateEmployee(_ context.Context, e Employee) (Employee, error) {
	if _, ok := f.emps[e.ID]; !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	now := time.Now()
	e.UpdatedAt = &now
	f.emps[e.ID] = e
	return e, nil
}

func (f *fakeStore) DeleteEmployee(_ context.Context, id int64) error {
	if _, ok := f.emps[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(f.emps, id)
	return nil
}

func (f *fakeStore) UserExists(_ context.Context, userID int64) (bool, error) {
	return f.users[userID], nil
}

func (f *fakeStore) UserLinked(_ context.Context, userID, excludeEmployeeID int64) (bool, error) {
	for _, e := range f.emps {
		if e.UserID != nil && *e.UserID == userID && e.ID != excludeEmployeeID {
			return true, nil
		}
	}
	return false, nil
}

func seedDepartment(t *testing.T, svc *Service, name string) Department {
	t.Helper()
	d, err := svc.CreateDepartment(context.Background(), Department{Name: name})
	require.NoError(t, err)
	return d
}

func TestCreateDepartmentRejectsDuplicateName(t *testing.T) {
	svc := NewService(newFakeStore())
	seedDepartment(t, svc, "Engineering")

	_, err := svc.CreateDepartment(context.Background(), Department{Name: "Engineering"})
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestUpdateDepartmentRenameConflict(t *testing.T) {
	svc := NewService(newFakeStore())
	seedDepartment(t, svc, "Engineering")
	sales := seedDepartment(t, svc, "Sales")

	name := "Engineering"
	_, err := svc.UpdateDepartment(context.Background(), sales.ID, DepartmentUpdate{Name: &name})
	require.ErrorIs(t, err, ErrNameTaken)

	// renaming to its own name is a no-op, not a conflict
	same := "Sales"
	_, err = svc.UpdateDepartment(context.Background(), sales.ID, DepartmentUpdate{Name: &same})
	require.NoError(t, err)
}

func TestDeleteDepartmentBlockedWhileNotEmpty(t *testing.T) {
	svc := NewService(newFakeStore())
	dept := seedDepartment(t, svc, "Engineering")

	_, err := svc.CreateEmployee(context.Background(), Employee{
		DepartmentID: dept.ID,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		HireDate:     time.Now(),
		Position:     "Engineer",
		BaseSalary:   50000,
	})
	require.NoError(t, err)

	err = svc.DeleteDepartment(context.Background(), dept.ID)
	require.ErrorIs(t, err, ErrDepartmentNotEmpty)
}

func TestCreateEmployeeRequiresDepartment(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.CreateEmployee(context.Background(), Employee{
		DepartmentID: 99,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		BaseSalary:   50000,
	})
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestCreateEmployeeUserLinkRules(t *testing.T) {
	store := newFakeStore()
	store.users[10] = true
	svc := NewService(store)
	dept := seedDepartment(t, svc, "Engineering")

	missing := int64(99)
	_, err := svc.CreateEmployee(context.Background(), Employee{DepartmentID: dept.ID, UserID: &missing, FirstName: "A", LastName: "B", BaseSalary: 1})
	require.ErrorIs(t, err, ErrUserNotFound)

	linked := int64(10)
	_, err = svc.CreateEmployee(context.Background(), Employee{DepartmentID: dept.ID, UserID: &linked, FirstName: "A", LastName: "B", BaseSalary: 1})
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), Employee{DepartmentID: dept.ID, UserID: &linked, FirstName: "C", LastName: "D", BaseSalary: 1})
	require.ErrorIs(t, err, ErrUserAlreadyLinked)
}

func TestUpdateEmployeePartial(t *testing.T) {
	svc := NewService(newFakeStore())
	dept := seedDepartment(t, svc, "Engineering")

	created, err := svc.CreateEmployee(context.Background(), Employee{
		DepartmentID: dept.ID,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Position:     "Engineer",
		BaseSalary:   50000,
	})
	require.NoError(t, err)

	salary := 60000.0
	updated, err := svc.UpdateEmployee(context.Background(), created.ID, EmployeeUpdate{BaseSalary: &salary})
	require.NoError(t, err)
	require.Equal(t, 60000.0, updated.BaseSalary)
	require.Equal(t, "Ada", updated.FirstName)
	require.Equal(t, "Engineer", updated.Position)
}

func TestUpdateEmployeeRejectsUnknownDepartment(t *testing.T) {
	svc := NewService(newFakeStore())
	dept := seedDepartment(t, svc, "Engineering")

	created, err := svc.CreateEmployee(context.Background(), Employee{DepartmentID: dept.ID, FirstName: "A", LastName: "B", BaseSalary: 1})
	require.NoError(t, err)

	missing := int64(42)
	_, err = svc.UpdateEmployee(context.Background(), created.ID, EmployeeUpdate{DepartmentID: &missing})
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestDepartmentStatistics(t *testing.T) {
	svc := NewService(newFakeStore())
	dept := seedDepartment(t, svc, "Engineering")

	for _, salary := range []float64{40000, 60000} {
		_, err := svc.CreateEmployee(context.Background(), Employee{DepartmentID: dept.ID, FirstName: "A", LastName: "B", BaseSalary: salary})
		require.NoError(t, err)
	}

	stats, err := svc.DepartmentStatistics(context.Background(), dept.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalEmployees)
	require.Equal(t, 100000.0, stats.TotalSalary)
	require.Equal(t, 50000.0, stats.AverageSalary)
}
