package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	employees     EmployeeStore
	compensations CompensationStore
	publisher     Publisher
	logger        *zap.Logger
	newID         func() string
	onLookup      func()
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLookupHook registers fn to be called once per store lookup made while
// walking a reporting hierarchy.
func WithLookupHook(fn func()) Option {
	return func(s *Service) {
		s.onLookup = fn
	}
}

func NewService(employees EmployeeStore, compensations CompensationStore, opts ...Option) *Service {
	s := &Service{
		employees:     employees,
		compensations: compensations,
		logger:        zap.NewNop(),
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	s.logger.Debug("creating employee", zap.Any("employee", emp))
	if err := ValidateEmployee(emp); err != nil {
		return Employee{}, err
	}

	emp.ID = s.newID()
	stored, err := s.employees.Insert(ctx, emp)
	if err != nil {
		return Employee{}, fmt.Errorf("insert employee %s: %w", emp.ID, err)
	}

	s.publish(ctx, EventEmployeeCreated, stored.ID, stored)
	s.logger.Info("employee created", zap.String("employeeId", stored.ID))
	return stored, nil
}

func (s *Service) ReadEmployee(ctx context.Context, id string) (Employee, error) {
	s.logger.Debug("reading employee", zap.String("employeeId", id))

	emp, err := s.employees.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Employee{}, emptyResult("%s%s", msgEmployeeNotFound, id)
	}
	if err != nil {
		return Employee{}, fmt.Errorf("find employee %s: %w", id, err)
	}

	s.logger.Info("employee found", zap.String("employeeId", id))
	return emp, nil
}

// UpdateEmployee fully replaces the stored employee carrying emp.ID. Callers set the
// id from the routing key before calling.
func (s *Service) UpdateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	s.logger.Debug("updating employee", zap.Any("employee", emp))
	if err := ValidateEmployee(emp); err != nil {
		return Employee{}, err
	}

	if _, err := s.employees.FindByID(ctx, emp.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Employee{}, invalidArgument("%s%s", msgEmployeeNotFound, emp.ID)
		}
		return Employee{}, fmt.Errorf("find employee %s: %w", emp.ID, err)
	}

	stored, err := s.employees.Save(ctx, emp)
	if errors.Is(err, ErrNotFound) {
		return Employee{}, invalidArgument("%s%s", msgEmployeeNotFound, emp.ID)
	}
	if err != nil {
		return Employee{}, fmt.Errorf("save employee %s: %w", emp.ID, err)
	}

	s.publish(ctx, EventEmployeeUpdated, stored.ID, stored)
	s.logger.Info("employee updated", zap.String("employeeId", stored.ID))
	return stored, nil
}

func (s *Service) CreateEmployeeCompensation(ctx context.Context, comp Compensation) (Compensation, error) {
	s.logger.Debug("creating compensation", zap.String("employeeId", comp.EmployeeID()))
	if err := ValidateCompensation(comp); err != nil {
		return Compensation{}, err
	}

	employeeID := comp.EmployeeID()
	emp, err := s.employees.FindByID(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return Compensation{}, invalidArgument("%s%s", msgEmployeeNotFound, employeeID)
	}
	if err != nil {
		return Compensation{}, fmt.Errorf("find employee %s: %w", employeeID, err)
	}

	_, err = s.compensations.FindByEmployee(ctx, emp.ID)
	switch {
	case err == nil:
		return Compensation{}, invalidArgument("%s%s", msgCompensationExists, emp.ID)
	case !errors.Is(err, ErrNotFound):
		return Compensation{}, fmt.Errorf("find compensation for %s: %w", emp.ID, err)
	}

	comp.Employee = &emp
	stored, err := s.compensations.Insert(ctx, comp)
	if errors.Is(err, ErrDuplicate) {
		return Compensation{}, invalidArgument("%s%s", msgCompensationExists, emp.ID)
	}
	if err != nil {
		return Compensation{}, fmt.Errorf("insert compensation for %s: %w", emp.ID, err)
	}
	stored.Employee = &emp

	s.publish(ctx, EventCompensationCreated, emp.ID, stored)
	s.logger.Info("compensation created", zap.String("employeeId", emp.ID))
	return stored, nil
}

// ReadEmployeeCompensation looks the compensation up by the employee's reference. An
// unknown employee is not reported separately: its empty reference simply matches no
// compensation.
func (s *Service) ReadEmployeeCompensation(ctx context.Context, id string) (Compensation, error) {
	s.logger.Debug("reading compensation", zap.String("employeeId", id))

	emp, err := s.employees.FindByID(ctx, id)
	found := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Compensation{}, fmt.Errorf("find employee %s: %w", id, err)
	}

	comp, err := s.compensations.FindByEmployee(ctx, emp.ID)
	if errors.Is(err, ErrNotFound) {
		return Compensation{}, emptyResult("%s%s", msgCompensationNotFound, id)
	}
	if err != nil {
		return Compensation{}, fmt.Errorf("find compensation for %s: %w", id, err)
	}
	if found {
		comp.Employee = &emp
	}

	s.logger.Info("compensation found", zap.String("employeeId", id))
	return comp, nil
}

func (s *Service) publish(ctx context.Context, eventType, key string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("eventType", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
