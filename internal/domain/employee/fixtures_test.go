package employee

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *MemoryEmployees, *MemoryCompensations) {
	t.Helper()
	employees := NewMemoryEmployees()
	compensations := NewMemoryCompensations()
	return NewService(employees, compensations, opts...), employees, compensations
}

func testEmployee(id, firstName string, reports ...string) Employee {
	emp := Employee{
		ID:         id,
		FirstName:  firstName,
		LastName:   "Doe",
		Position:   "Developer",
		Department: "Engineering",
	}
	for _, report := range reports {
		emp.DirectReports = append(emp.DirectReports, Ref{EmployeeID: report})
	}
	return emp
}

func putEmployee(t *testing.T, store *MemoryEmployees, id string, reports ...string) Employee {
	t.Helper()
	emp, err := store.Insert(context.Background(), testEmployee(id, "Emp", reports...))
	if err != nil {
		t.Fatalf("seed employee %s: %v", id, err)
	}
	return emp
}

func testCompensation(employeeID string) Compensation {
	date := NewDate(2024, 1, 15)
	return Compensation{
		Employee:      &Employee{ID: employeeID},
		Salary:        decimal.NewFromInt(12345),
		EffectiveDate: &date,
	}
}

// countingEmployees wraps a store and counts calls by method.
type countingEmployees struct {
	EmployeeStore
	mu    sync.Mutex
	calls map[string]int
}

func newCountingEmployees(inner EmployeeStore) *countingEmployees {
	return &countingEmployees{EmployeeStore: inner, calls: map[string]int{}}
}

func (c *countingEmployees) count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

func (c *countingEmployees) record(method string) {
	c.mu.Lock()
	c.calls[method]++
	c.mu.Unlock()
}

func (c *countingEmployees) Insert(ctx context.Context, emp Employee) (Employee, error) {
	c.record("Insert")
	return c.EmployeeStore.Insert(ctx, emp)
}

func (c *countingEmployees) Save(ctx context.Context, emp Employee) (Employee, error) {
	c.record("Save")
	return c.EmployeeStore.Save(ctx, emp)
}

func (c *countingEmployees) FindByID(ctx context.Context, id string) (Employee, error) {
	c.record("FindByID")
	return c.EmployeeStore.FindByID(ctx, id)
}

// racingCompensations never sees an existing record but rejects the insert, the way a
// unique index does when another request won.
type racingCompensations struct{}

func (racingCompensations) Insert(context.Context, Compensation) (Compensation, error) {
	return Compensation{}, ErrDuplicate
}

func (racingCompensations) FindByEmployee(context.Context, string) (Compensation, error) {
	return Compensation{}, ErrNotFound
}

type recordedEvent struct {
	eventType string
	key       string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{eventType: eventType, key: key})
	return p.err
}
