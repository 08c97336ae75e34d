package payroll

import (
	"context"
	"errors"
	"time"

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

const payrollColumns = `id, employee_id, pay_period_start, pay_period_end, base_salary,
           overtime_pay, deductions, tax, net_salary, status, payment_date, created_at, updated_at`

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PayPeriodStart, &p.PayPeriodEnd, &p.BaseSalary,
		&p.OvertimePay, &p.Deductions, &p.Tax, &p.NetSalary, &p.Status,
		&p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, err
	}
	return p, nil
}

// mapConstraintViolation translates the period exclusion constraint and the
// employee foreign key into domain sentinels.
func mapConstraintViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23P01":
		return ErrPeriodOverlap
	case "23503":
		return ErrEmployeeNotFound
	}
	return err
}

func (s *Store) Insert(ctx context.Context, p Payroll) (Payroll, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payrolls (employee_id, pay_period_start, pay_period_end, base_salary,
                          overtime_pay, deductions, tax, net_salary, status)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    RETURNING `+payrollColumns+`
  `, p.EmployeeID, p.PayPeriodStart, p.PayPeriodEnd, p.BaseSalary,
		p.OvertimePay, p.Deductions, p.Tax, p.NetSalary, p.Status)
	created, err := scanPayroll(row)
	if err != nil {
		return Payroll{}, mapConstraintViolation(err)
	}
	return created, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Payroll, error) {
	return scanPayroll(s.DB.QueryRow(ctx, "SELECT "+payrollColumns+" FROM payrolls WHERE id = $1", id))
}

const payrollFilterClause = `
    WHERE ($1::bigint IS NULL OR employee_id = $1)
      AND ($2::date IS NULL OR pay_period_start >= $2)
      AND ($3::date IS NULL OR pay_period_end <= $3)
      AND ($4 = '' OR status = $4)`

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM payrolls"+payrollFilterClause,
		filter.EmployeeID, filter.StartDate, filter.EndDate, string(filter.Status),
	).Scan(&total)
	return total, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+payrollColumns+" FROM payrolls"+payrollFilterClause+`
    ORDER BY id
    LIMIT $5 OFFSET $6
  `, filter.EmployeeID, filter.StartDate, filter.EndDate, string(filter.Status), filter.Limit, filter.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payroll
	for rows.Next() {
		var p Payroll
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.PayPeriodStart, &p.PayPeriodEnd, &p.BaseSalary,
			&p.OvertimePay, &p.Deductions, &p.Tax, &p.NetSalary, &p.Status,
			&p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, p Payroll) (Payroll, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE payrolls
    SET overtime_pay = $2, deductions = $3, tax = $4, net_salary = $5,
        status = $6, payment_date = $7, updated_at = now()
    WHERE id = $1
    RETURNING `+payrollColumns+`
  `, p.ID, p.OvertimePay, p.Deductions, p.Tax, p.NetSalary, p.Status, p.PaymentDate)
	return scanPayroll(row)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payrolls WHERE id = $1", id)
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

func (s *Store) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time, excludeID int64) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payrolls
    WHERE employee_id = $1
      AND pay_period_start <= $3
      AND pay_period_end >= $2
      AND id <> $4
  `, employeeID, start, end, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) PayslipData(ctx context.Context, id int64) (PayslipData, error) {
	var data PayslipData
	err := s.DB.QueryRow(ctx, `
    SELECT p.id, e.first_name, e.last_name, e.position, d.name,
           p.pay_period_start, p.pay_period_end, p.base_salary, p.overtime_pay,
           p.deductions, p.tax, p.net_salary, p.status, p.payment_date
    FROM payrolls p
    JOIN employees e ON p.employee_id = e.id
    JOIN departments d ON e.department_id = d.id
    WHERE p.id = $1
  `, id).Scan(
		&data.PayrollID, &data.FirstName, &data.LastName, &data.Position, &data.Department,
		&data.PeriodStart, &data.PeriodEnd, &data.BaseSalary, &data.OvertimePay,
		&data.Deductions, &data.Tax, &data.NetSalary, &data.Status, &data.PaymentDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayslipData{}, ErrNotFound
	}
	if err != nil {
		return PayslipData{}, err
	}
	return data, nil
}
