package employee

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

func (s *Service) ReadEmployeeReportingStructure(ctx context.Context, id string) (ReportingStructure, error) {
	s.logger.Debug("reading reporting structure", zap.String("employeeId", id))

	root, err := s.employees.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ReportingStructure{}, emptyResult("%s%s", msgEmployeeNotFound, id)
	}
	if err != nil {
		return ReportingStructure{}, fmt.Errorf("find employee %s: %w", id, err)
	}

	count, err := s.countReports(ctx, root)
	if err != nil {
		return ReportingStructure{}, err
	}

	s.logger.Info("reporting structure found",
		zap.String("employeeId", id),
		zap.Int("numberOfReports", count),
	)
	return ReportingStructure{Employee: root, NumberOfReports: count}, nil
}

type reportFrame struct {
	id      string
	reports []Ref
	next    int
}

// countReports walks the hierarchy below root depth first. Each direct report is
// re-read from the store so nested reports come from the authoritative document,
// never from what the parent happened to embed. Every reference counts once per
// parent; a reference that no longer resolves counts but has no subtree. A report
// that points back at one of its ancestors is a cycle.
func (s *Service) countReports(ctx context.Context, root Employee) (int, error) {
	onPath := map[string]struct{}{root.ID: {}}
	stack := []*reportFrame{{id: root.ID, reports: root.DirectReports}}
	total := 0

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.reports) {
			delete(onPath, top.id)
			stack = stack[:len(stack)-1]
			continue
		}

		reportID := top.reports[top.next].EmployeeID
		top.next++
		total++

		if _, ok := onPath[reportID]; ok {
			return 0, &Error{Kind: KindCyclicHierarchy, Message: msgCyclicHierarchy + reportID}
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		report, err := s.employees.FindByID(ctx, reportID)
		if s.onLookup != nil {
			s.onLookup()
		}
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("direct report does not resolve",
				zap.String("managerId", top.id),
				zap.String("employeeId", reportID),
			)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("find report %s: %w", reportID, err)
		}

		onPath[reportID] = struct{}{}
		stack = append(stack, &reportFrame{id: reportID, reports: report.DirectReports})
	}
	return total, nil
}
