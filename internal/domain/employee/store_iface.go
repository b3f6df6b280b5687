package employee

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// EmployeeStore persists employees keyed by id. FindByID and Save return ErrNotFound
// when no document has the id.
type EmployeeStore interface {
	Insert(ctx context.Context, emp Employee) (Employee, error)
	Save(ctx context.Context, emp Employee) (Employee, error)
	FindByID(ctx context.Context, id string) (Employee, error)
}

// CompensationStore persists at most one compensation per employee. Insert returns
// ErrDuplicate when the employee already has one; FindByEmployee returns ErrNotFound.
// Returned compensations only carry the employee id.
type CompensationStore interface {
	Insert(ctx context.Context, comp Compensation) (Compensation, error)
	FindByEmployee(ctx context.Context, employeeID string) (Compensation, error)
}

// Publisher receives domain events after a successful write.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

const (
	EventEmployeeCreated     = "employee.created"
	EventEmployeeUpdated     = "employee.updated"
	EventCompensationCreated = "compensation.created"
)
