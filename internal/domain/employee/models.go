package employee

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted wire form for calendar dates.
const DateLayout = "2006-01-02"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Ref points at an employee by id. Anything else embedded next to the id is ignored.
type Ref struct {
	EmployeeID string `json:"employeeId"`
}

type Employee struct {
	ID            string `json:"employeeId"`
	FirstName     string `json:"firstName" validate:"required,alpha"`
	LastName      string `json:"lastName" validate:"required,alpha"`
	Position      string `json:"position" validate:"required"`
	Department    string `json:"department" validate:"required"`
	DirectReports []Ref  `json:"directReports,omitempty"`
}

func (e Employee) Ref() Ref {
	return Ref{EmployeeID: e.ID}
}

// ReportIDs returns the ids of the direct reports in declaration order.
func (e Employee) ReportIDs() []string {
	ids := make([]string, 0, len(e.DirectReports))
	for _, ref := range e.DirectReports {
		ids = append(ids, ref.EmployeeID)
	}
	return ids
}

func (e Employee) clone() Employee {
	out := e
	if e.DirectReports != nil {
		out.DirectReports = make([]Ref, len(e.DirectReports))
		copy(out.DirectReports, e.DirectReports)
	}
	return out
}

type Compensation struct {
	Employee      *Employee       `json:"employee" validate:"-"`
	Salary        decimal.Decimal `json:"salary" validate:"min=0"`
	EffectiveDate *Date           `json:"effectiveDate" validate:"required"`
}

// EmployeeID returns the referenced employee id, or "" when no employee is attached.
func (c Compensation) EmployeeID() string {
	if c.Employee == nil {
		return ""
	}
	return c.Employee.ID
}

type ReportingStructure struct {
	Employee        Employee `json:"employee"`
	NumberOfReports int      `json:"numberOfReports"`
}

// Date is a calendar date that only round-trips through JSON as yyyy-MM-dd.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, &DateFormatError{Value: value}
	}
	return Date{Time: parsed}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return &DateFormatError{Value: string(trimmed)}
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateFormatError carries a fixed, client-facing message instead of the parser's.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return "Invalid date format. Expected format is yyyy-MM-dd"
}
