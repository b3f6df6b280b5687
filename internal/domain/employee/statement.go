package employee

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteCompensationStatement renders a one page PDF summary of the employee's
// compensation to w. It fails the same way ReadEmployeeCompensation does.
func (s *Service) WriteCompensationStatement(ctx context.Context, id string, w io.Writer) error {
	comp, err := s.ReadEmployeeCompensation(ctx, id)
	if err != nil {
		return err
	}

	pdf := renderStatement(comp)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render statement for %s: %w", id, err)
	}
	return nil
}

func renderStatement(comp Compensation) *gofpdf.Fpdf {
	emp := Employee{}
	if comp.Employee != nil {
		emp = *comp.Employee
	}
	effective := ""
	if comp.EffectiveDate != nil {
		effective = comp.EffectiveDate.String()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Compensation Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s", emp.FirstName, emp.LastName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee ID: %s", emp.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Position: %s", emp.Position))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", emp.Department))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Salary: %s", comp.Salary.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Effective date: %s", effective))
	return pdf
}
