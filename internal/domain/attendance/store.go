package attendance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const attendanceColumns = `id, employee_id, date, status, check_in, check_out,
           work_hours, COALESCE(notes, ''), created_at, updated_at`

func scanAttendance(row pgx.Row) (Attendance, error) {
	var a Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.CheckIn, &a.CheckOut,
		&a.WorkHours, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrNotFound
	}
	if err != nil {
		return Attendance{}, err
	}
	return a, nil
}

func (s *Store) Insert(ctx context.Context, a Attendance) (Attendance, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO attendances (employee_id, date, status, check_in, check_out, work_hours, notes)
    VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
    RETURNING `+attendanceColumns+`
  `, a.EmployeeID, a.Date, a.Status, a.CheckIn, a.CheckOut, a.WorkHours, a.Notes)
	return scanAttendance(row)
}

func (s *Store) Get(ctx context.Context, employeeID, id int64) (Attendance, error) {
	return scanAttendance(s.DB.QueryRow(ctx,
		"SELECT "+attendanceColumns+" FROM attendances WHERE id = $1 AND employee_id = $2", id, employeeID))
}

const attendanceFilterClause = `
    WHERE employee_id = $1
      AND ($2::date IS NULL OR date >= $2)
      AND ($3::date IS NULL OR date <= $3)`

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM attendances"+attendanceFilterClause,
		filter.EmployeeID, filter.StartDate, filter.EndDate,
	).Scan(&total)
	return total, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Attendance, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+attendanceColumns+" FROM attendances"+attendanceFilterClause+`
    ORDER BY date, id
    LIMIT $4 OFFSET $5
  `, filter.EmployeeID, filter.StartDate, filter.EndDate, filter.Limit, filter.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.CheckIn, &a.CheckOut,
			&a.WorkHours, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, a Attendance) (Attendance, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE attendances
    SET date = $3, status = $4, check_in = $5, check_out = $6,
        work_hours = $7, notes = NULLIF($8, ''), updated_at = now()
    WHERE id = $1 AND employee_id = $2
    RETURNING `+attendanceColumns+`
  `, a.ID, a.EmployeeID, a.Date, a.Status, a.CheckIn, a.CheckOut, a.WorkHours, a.Notes)
	return scanAttendance(row)
}

func (s *Store) Delete(ctx context.Context, employeeID, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendances WHERE id = $1 AND employee_id = $2", id, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", employeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
