package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"emprecords/internal/domain/employee"
)

// Target is an employee store that can report how many documents it holds.
type Target interface {
	Insert(ctx context.Context, emp employee.Employee) (employee.Employee, error)
	Count(ctx context.Context) (int64, error)
}

func Decode(r io.Reader) ([]employee.Employee, error) {
	var employees []employee.Employee
	if err := json.NewDecoder(r).Decode(&employees); err != nil {
		return nil, fmt.Errorf("decode seed employees: %w", err)
	}
	for i, emp := range employees {
		if emp.ID == "" {
			return nil, fmt.Errorf("seed employee %d has no employeeId", i)
		}
	}
	return employees, nil
}

// Run loads the employees in path into target when target is empty. Ids from the
// file are kept so the hierarchy references stay valid. It returns how many
// employees were inserted.
func Run(ctx context.Context, target Target, path string, logger *zap.Logger) (int, error) {
	count, err := target.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	if count > 0 {
		logger.Info("employee store already populated, skipping seed", zap.Int64("employees", count))
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	employees, err := Decode(f)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, emp := range employees {
		if _, err := target.Insert(ctx, emp); err != nil {
			if errors.Is(err, employee.ErrDuplicate) {
				logger.Warn("seed employee already exists", zap.String("employeeId", emp.ID))
				continue
			}
			return inserted, fmt.Errorf("insert seed employee %s: %w", emp.ID, err)
		}
		inserted++
	}

	logger.Info("seeded employees", zap.String("file", path), zap.Int("employees", inserted))
	return inserted, nil
}
