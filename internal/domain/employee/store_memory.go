package employee

import (
	"context"
	"sync"
)

// MemoryEmployees keeps employees in process. Used for tests and STORE_DRIVER=memory.
type MemoryEmployees struct {
	mu   sync.RWMutex
	docs map[string]Employee
}

func NewMemoryEmployees() *MemoryEmployees {
	return &MemoryEmployees{docs: map[string]Employee{}}
}

func (m *MemoryEmployees) Insert(ctx context.Context, emp Employee) (Employee, error) {
	if err := ctx.Err(); err != nil {
		return Employee{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[emp.ID]; ok {
		return Employee{}, ErrDuplicate
	}
	m.docs[emp.ID] = emp.clone()
	return emp.clone(), nil
}

func (m *MemoryEmployees) Save(ctx context.Context, emp Employee) (Employee, error) {
	if err := ctx.Err(); err != nil {
		return Employee{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[emp.ID]; !ok {
		return Employee{}, ErrNotFound
	}
	m.docs[emp.ID] = emp.clone()
	return emp.clone(), nil
}

func (m *MemoryEmployees) FindByID(ctx context.Context, id string) (Employee, error) {
	if err := ctx.Err(); err != nil {
		return Employee{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.docs[id]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return emp.clone(), nil
}

func (m *MemoryEmployees) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.docs)), nil
}

// MemoryCompensations enforces one compensation per employee id under its lock.
type MemoryCompensations struct {
	mu   sync.RWMutex
	docs map[string]Compensation
}

func NewMemoryCompensations() *MemoryCompensations {
	return &MemoryCompensations{docs: map[string]Compensation{}}
}

func (m *MemoryCompensations) Insert(ctx context.Context, comp Compensation) (Compensation, error) {
	if err := ctx.Err(); err != nil {
		return Compensation{}, err
	}
	employeeID := comp.EmployeeID()
	stored := Compensation{
		Employee:      &Employee{ID: employeeID},
		Salary:        comp.Salary,
		EffectiveDate: comp.EffectiveDate,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[employeeID]; ok {
		return Compensation{}, ErrDuplicate
	}
	m.docs[employeeID] = stored
	return stored, nil
}

func (m *MemoryCompensations) FindByEmployee(ctx context.Context, employeeID string) (Compensation, error) {
	if err := ctx.Err(); err != nil {
		return Compensation{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	comp, ok := m.docs[employeeID]
	if !ok {
		return Compensation{}, ErrNotFound
	}
	comp.Employee = &Employee{ID: employeeID}
	return comp, nil
}
