package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	nextID    int64
	records   map[int64]Attendance
	employees map[int64]bool
}

func newFakeStore(employeeIDs ...int64) *fakeStore {
	f := &fakeStore{nextID: 1, records: map[int64]Attendance{}, employees: map[int64]bool{}}
	for _, id := range employeeIDs {
		f.employees[id] = true
	}
	return f
}

func (f *fakeStore) Insert(_ context.Context, a Attendance) (Attendance, error) {
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.nextID++
	f.records[a.ID] = a
	return a, nil
}

func (f *fakeStore) Get(_ context.Context, employeeID, id int64) (Attendance, error) {
	a, ok := f.records[id]
	if !ok || a.EmployeeID != employeeID {
		return Attendance{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) Count(_ context.Context, _ Filter) (int, error) {
	return len(f.records), nil
}

func (f *fakeStore) List(_ context.Context, _ Filter) ([]Attendance, error) {
	out := make([]Attendance, 0, len(f.records))
	for _, a := range f.records {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, a Attendance) (Attendance, error) {
	if _, ok := f.records[a.ID]; !ok {
		return Attendance{}, ErrNotFound
	}
	now := time.Now()
	a.UpdatedAt = &now
	f.records[a.ID] = a
	return a, nil
}

func (f *fakeStore) Delete(_ context.Context, employeeID, id int64) error {
	a, ok := f.records[id]
	if !ok || a.EmployeeID != employeeID {
		return ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeStore) EmployeeExists(_ context.Context, employeeID int64) (bool, error) {
	return f.employees[employeeID], nil
}

func ts(hour, minute int) *time.Time {
	t := time.Date(2024, 3, 4, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestCreateComputesWorkHours(t *testing.T) {
	svc := NewService(newFakeStore(1))

	clientHours := 40.0
	created, err := svc.Create(context.Background(), Attendance{
		EmployeeID: 1,
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     StatusPresent,
		CheckIn:    ts(9, 0),
		CheckOut:   ts(17, 30),
		WorkHours:  &clientHours, // must be discarded
	})
	require.NoError(t, err)
	require.NotNil(t, created.WorkHours)
	require.Equal(t, 8.5, *created.WorkHours)
}

func TestCreateWithoutTimestampsLeavesHoursNil(t *testing.T) {
	svc := NewService(newFakeStore(1))
	created, err := svc.Create(context.Background(), Attendance{
		EmployeeID: 1,
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     StatusAbsent,
	})
	require.NoError(t, err)
	require.Nil(t, created.WorkHours)
}

func TestCreateRequiresEmployee(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), Attendance{EmployeeID: 1, Status: StatusPresent})
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestUpdateRecomputesWorkHours(t *testing.T) {
	svc := NewService(newFakeStore(1))
	created, err := svc.Create(context.Background(), Attendance{
		EmployeeID: 1,
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     StatusPresent,
		CheckIn:    ts(9, 0),
	})
	require.NoError(t, err)
	require.Nil(t, created.WorkHours)

	updated, err := svc.Update(context.Background(), 1, created.ID, Update{CheckOut: ts(17, 0)})
	require.NoError(t, err)
	require.NotNil(t, updated.WorkHours)
	require.Equal(t, 8.0, *updated.WorkHours)

	// moving checkout recomputes rather than keeping the stale figure
	updated, err = svc.Update(context.Background(), 1, created.ID, Update{CheckOut: ts(13, 0)})
	require.NoError(t, err)
	require.Equal(t, 4.0, *updated.WorkHours)
}

func TestUpdatePartialKeepsOtherFields(t *testing.T) {
	svc := NewService(newFakeStore(1))
	created, err := svc.Create(context.Background(), Attendance{
		EmployeeID: 1,
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     StatusPresent,
		Notes:      "on site",
	})
	require.NoError(t, err)

	status := StatusHalfDay
	updated, err := svc.Update(context.Background(), 1, created.ID, Update{Status: &status})
	require.NoError(t, err)
	require.Equal(t, StatusHalfDay, updated.Status)
	require.Equal(t, "on site", updated.Notes)
}

func TestGetScopedToEmployee(t *testing.T) {
	svc := NewService(newFakeStore(1, 2))
	created, err := svc.Create(context.Background(), Attendance{EmployeeID: 1, Status: StatusPresent})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPresent, StatusAbsent, StatusLeave, StatusHalfDay} {
		require.True(t, s.Valid())
	}
	require.False(t, Status("vacation").Valid())
}
