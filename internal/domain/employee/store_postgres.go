package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const pgUniqueViolation = "23505"

// PgxPoolIface is the part of *pgxpool.Pool the document stores need.
type PgxPoolIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresEmployees stores each employee as a JSONB document keyed by id.
type PostgresEmployees struct {
	pool PgxPoolIface
}

func NewPostgresEmployees(pool PgxPoolIface) *PostgresEmployees {
	return &PostgresEmployees{pool: pool}
}

func (s *PostgresEmployees) Insert(ctx context.Context, emp Employee) (Employee, error) {
	payload, err := json.Marshal(emp)
	if err != nil {
		return Employee{}, fmt.Errorf("marshal employee: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
    INSERT INTO employee_documents (id, document)
    VALUES ($1, $2::jsonb)
  `, emp.ID, string(payload))
	if err != nil {
		if isUniqueViolation(err) {
			return Employee{}, ErrDuplicate
		}
		return Employee{}, fmt.Errorf("pool.Exec: %w", err)
	}
	return emp, nil
}

func (s *PostgresEmployees) Save(ctx context.Context, emp Employee) (Employee, error) {
	payload, err := json.Marshal(emp)
	if err != nil {
		return Employee{}, fmt.Errorf("marshal employee: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
    UPDATE employee_documents
    SET document = $2::jsonb,
        updated_at = now()
    WHERE id = $1
  `, emp.ID, string(payload))
	if err != nil {
		return Employee{}, fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (s *PostgresEmployees) FindByID(ctx context.Context, id string) (Employee, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
    SELECT document
    FROM employee_documents
    WHERE id = $1
  `, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("pool.QueryRow: %w", err)
	}

	var emp Employee
	if err := json.Unmarshal(raw, &emp); err != nil {
		return Employee{}, fmt.Errorf("unmarshal employee %s: %w", id, err)
	}
	emp.ID = id
	return emp, nil
}

func (s *PostgresEmployees) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM employee_documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}
	return count, nil
}

type compensationRecord struct {
	Salary        decimal.Decimal `json:"salary"`
	EffectiveDate *Date           `json:"effectiveDate"`
}

// PostgresCompensations relies on the UNIQUE(employee_id) constraint for the
// one-per-employee rule.
type PostgresCompensations struct {
	pool PgxPoolIface
}

func NewPostgresCompensations(pool PgxPoolIface) *PostgresCompensations {
	return &PostgresCompensations{pool: pool}
}

func (s *PostgresCompensations) Insert(ctx context.Context, comp Compensation) (Compensation, error) {
	record := compensationRecord{Salary: comp.Salary, EffectiveDate: comp.EffectiveDate}
	payload, err := json.Marshal(record)
	if err != nil {
		return Compensation{}, fmt.Errorf("marshal compensation: %w", err)
	}
	employeeID := comp.EmployeeID()
	_, err = s.pool.Exec(ctx, `
    INSERT INTO compensation_documents (employee_id, document)
    VALUES ($1, $2::jsonb)
  `, employeeID, string(payload))
	if err != nil {
		if isUniqueViolation(err) {
			return Compensation{}, ErrDuplicate
		}
		return Compensation{}, fmt.Errorf("pool.Exec: %w", err)
	}
	return record.toCompensation(employeeID), nil
}

func (s *PostgresCompensations) FindByEmployee(ctx context.Context, employeeID string) (Compensation, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
    SELECT document
    FROM compensation_documents
    WHERE employee_id = $1
  `, employeeID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Compensation{}, ErrNotFound
	}
	if err != nil {
		return Compensation{}, fmt.Errorf("pool.QueryRow: %w", err)
	}

	var record compensationRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return Compensation{}, fmt.Errorf("unmarshal compensation for %s: %w", employeeID, err)
	}
	return record.toCompensation(employeeID), nil
}

func (r compensationRecord) toCompensation(employeeID string) Compensation {
	return Compensation{
		Employee:      &Employee{ID: employeeID},
		Salary:        r.Salary,
		EffectiveDate: r.EffectiveDate,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
