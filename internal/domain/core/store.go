package core

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const departmentColumns = "id, name, COALESCE(description, ''), created_at, updated_at"

func scanDepartment(row pgx.Row) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrDepartmentNotFound
	}
	if err != nil {
		return Department{}, err
	}
	return d, nil
}

func mapConstraintViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		switch {
		case strings.Contains(pgErr.ConstraintName, "departments_name"):
			return ErrNameTaken
		case strings.Contains(pgErr.ConstraintName, "employees_user_id"):
			return ErrUserAlreadyLinked
		}
	case "23503":
		switch {
		case strings.Contains(pgErr.ConstraintName, "department_id"):
			return ErrDepartmentNotFound
		case strings.Contains(pgErr.ConstraintName, "user_id"):
			return ErrUserNotFound
		}
	}
	return err
}

func (s *Store) InsertDepartment(ctx context.Context, d Department) (Department, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description)
    VALUES ($1, NULLIF($2, ''))
    RETURNING `+departmentColumns+`
  `, d.Name, d.Description)
	created, err := scanDepartment(row)
	if err != nil {
		return Department{}, mapConstraintViolation(err)
	}
	return created, nil
}

func (s *Store) GetDepartment(ctx context.Context, id int64) (Department, error) {
	return scanDepartment(s.DB.QueryRow(ctx, "SELECT "+departmentColumns+" FROM departments WHERE id = $1", id))
}

func (s *Store) CountDepartments(ctx context.Context, filter DepartmentFilter) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM departments
    WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
  `, filter.Search).Scan(&total)
	return total, err
}

func (s *Store) ListDepartments(ctx context.Context, filter DepartmentFilter) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+departmentColumns+`
    FROM departments
    WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
    ORDER BY id
    LIMIT $2 OFFSET $3
  `, filter.Search, filter.Limit, filter.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpdateDepartment(ctx context.Context, d Department) (Department, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE departments
    SET name = $2, description = NULLIF($3, ''), updated_at = now()
    WHERE id = $1
    RETURNING `+departmentColumns+`
  `, d.ID, d.Name, d.Description)
	updated, err := scanDepartment(row)
	if err != nil {
		return Department{}, mapConstraintViolation(err)
	}
	return updated, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrDepartmentNotEmpty
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (s *Store) DepartmentNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments WHERE name = $1 AND id <> $2", name, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) EmployeeCountByDepartment(ctx context.Context, departmentID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE department_id = $1", departmentID).Scan(&count)
	return count, err
}

func (s *Store) DepartmentStats(ctx context.Context, id int64) (DepartmentStats, error) {
	var stats DepartmentStats
	err := s.DB.QueryRow(ctx, `
    SELECT d.name,
           COUNT(e.id),
           COALESCE(SUM(e.base_salary), 0),
           COALESCE(AVG(e.base_salary), 0)
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    WHERE d.id = $1
    GROUP BY d.name
  `, id).Scan(&stats.DepartmentName, &stats.TotalEmployees, &stats.TotalSalary, &stats.AverageSalary)
	if errors.Is(err, pgx.ErrNoRows) {
		return DepartmentStats{}, ErrDepartmentNotFound
	}
	if err != nil {
		return DepartmentStats{}, err
	}
	return stats, nil
}

const employeeColumns = `e.id, e.user_id, e.department_id, e.first_name, e.last_name,
           e.date_of_birth, COALESCE(e.gender, ''), COALESCE(e.phone, ''), COALESCE(e.address, ''),
           e.hire_date, e.position, e.base_salary, e.created_at, e.updated_at,
           d.id, d.name, COALESCE(d.description, ''), d.created_at, d.updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var d Department
	err := row.Scan(
		&e.ID, &e.UserID, &e.DepartmentID, &e.FirstName, &e.LastName,
		&e.DateOfBirth, &e.Gender, &e.Phone, &e.Address,
		&e.HireDate, &e.Position, &e.BaseSalary, &e.CreatedAt, &e.UpdatedAt,
		&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	e.Department = &d
	return e, nil
}

func (s *Store) InsertEmployee(ctx context.Context, e Employee) (Employee, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, department_id, first_name, last_name, date_of_birth,
                           gender, phone, address, hire_date, position, base_salary)
    VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)
    RETURNING id
  `, e.UserID, e.DepartmentID, e.FirstName, e.LastName, e.DateOfBirth,
		e.Gender, e.Phone, e.Address, e.HireDate, e.Position, e.BaseSalary).Scan(&id)
	if err != nil {
		return Employee{}, mapConstraintViolation(err)
	}
	return s.GetEmployee(ctx, id)
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN departments d ON e.department_id = d.id
    WHERE e.id = $1
  `, id))
}

func (s *Store) CountEmployees(ctx context.Context, filter EmployeeFilter) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees e
    WHERE ($1 = '' OR e.first_name ILIKE '%' || $1 || '%' OR e.last_name ILIKE '%' || $1 || '%')
      AND ($2::bigint IS NULL OR e.department_id = $2)
  `, filter.Search, filter.DepartmentID).Scan(&total)
	return total, err
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN departments d ON e.department_id = d.id
    WHERE ($1 = '' OR e.first_name ILIKE '%' || $1 || '%' OR e.last_name ILIKE '%' || $1 || '%')
      AND ($2::bigint IS NULL OR e.department_id = $2)
    ORDER BY e.id
    LIMIT $3 OFFSET $4
  `, filter.Search, filter.DepartmentID, filter.Limit, filter.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		var d Department
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.DepartmentID, &e.FirstName, &e.LastName,
			&e.DateOfBirth, &e.Gender, &e.Phone, &e.Address,
			&e.HireDate, &e.Position, &e.BaseSalary, &e.CreatedAt, &e.UpdatedAt,
			&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Department = &d
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) (Employee, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, date_of_birth = $4, gender = NULLIF($5, ''),
        phone = NULLIF($6, ''), address = NULLIF($7, ''), hire_date = $8, position = $9,
        base_salary = $10, department_id = $11, updated_at = now()
    WHERE id = $1
  `, e.ID, e.FirstName, e.LastName, e.DateOfBirth, e.Gender,
		e.Phone, e.Address, e.HireDate, e.Position, e.BaseSalary, e.DepartmentID)
	if err != nil {
		return Employee{}, mapConstraintViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrEmployeeNotFound
	}
	return s.GetEmployee(ctx, e.ID)
}

// DeleteEmployee never cascades; payroll and attendance rows keep their
// employee FK, so a referenced employee cannot be removed.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrEmployeeHasRecords
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE id = $1", userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UserLinked(ctx context.Context, userID, excludeEmployeeID int64) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE user_id = $1 AND id <> $2", userID, excludeEmployeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
