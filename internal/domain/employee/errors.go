package employee

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the transport layer can pick a response without
// inspecting concrete error types.
type Kind int

const (
	KindUnexpected Kind = iota
	KindEmptyResult
	KindInvalidArgument
	KindValidation
	KindCyclicHierarchy
)

func (k Kind) String() string {
	switch k {
	case KindEmptyResult:
		return "empty_result"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindValidation:
		return "validation_error"
	case KindCyclicHierarchy:
		return "cyclic_hierarchy"
	default:
		return "unexpected"
	}
}

const (
	msgEmployeeNotFound     = "Employee not found for id: "
	msgCompensationNotFound = "No compensation found for employee with id: "
	msgCompensationExists   = "Compensation already exists for employee "
	msgCyclicHierarchy      = "Reporting hierarchy contains a cycle at employee "
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldIssue
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, KindUnexpected for anything that is not an *Error.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnexpected
}

func emptyResult(format string, args ...any) *Error {
	return &Error{Kind: KindEmptyResult, Message: fmt.Sprintf(format, args...)}
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
