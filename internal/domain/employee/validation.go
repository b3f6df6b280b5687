package employee

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if amount, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := amount.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// constraintMessages maps "<StructField>.<tag>" to the message shown to clients.
var constraintMessages = map[string]string{
	"FirstName.required":     "First name is required!",
	"FirstName.alpha":        "First name must only contain characters!",
	"LastName.required":      "Last name is required!",
	"LastName.alpha":         "Last name must only contain characters!",
	"Position.required":      "Position name is required!",
	"Department.required":    "Department name is required!",
	"Salary.min":             "Salary amount must be greater than or equal to 0!",
	"EffectiveDate.required": "Effective date is required!",
}

// ValidateEmployee checks the client-supplied fields of emp. The id and direct
// reports are not validated.
func ValidateEmployee(emp Employee) error {
	return validationError(collectIssues(emp))
}

func ValidateCompensation(comp Compensation) error {
	var issues []FieldIssue
	if comp.Employee == nil {
		issues = append(issues, FieldIssue{Field: "employee", Reason: "Employee is required!"})
	}
	issues = append(issues, collectIssues(comp)...)
	return validationError(issues)
}

func collectIssues(value any) []FieldIssue {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []FieldIssue{{Reason: err.Error()}}
	}
	issues := make([]FieldIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reason, ok := constraintMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			reason = fe.Error()
		}
		issues = append(issues, FieldIssue{Field: fe.Field(), Reason: reason})
	}
	return issues
}

func validationError(issues []FieldIssue) error {
	if len(issues) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, issue := range issues {
		sb.WriteString(issue.Reason)
		sb.WriteString("\n")
	}
	return &Error{Kind: KindValidation, Message: sb.String(), Fields: issues}
}
