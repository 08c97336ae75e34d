package payroll

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PayslipData is the joined view a payslip renders from.
type PayslipData struct {
	PayrollID   int64
	FirstName   string
	LastName    string
	Position    string
	Department  string
	PeriodStart time.Time
	PeriodEnd   time.Time
	BaseSalary  float64
	OvertimePay float64
	Deductions  float64
	Tax         float64
	NetSalary   float64
	Status      Status
	PaymentDate *time.Time
}

// RenderPayslip produces a PDF payslip for a processed or paid record.
func (s *Service) RenderPayslip(ctx context.Context, id int64) ([]byte, error) {
	data, err := s.store.PayslipData(ctx, id)
	if err != nil {
		return nil, err
	}
	if data.Status == StatusPending {
		return nil, ErrNotRenderable
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s", data.FirstName, data.LastName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Position: %s, %s", data.Position, data.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		data.PeriodStart.Format("2006-01-02"), data.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %.2f", data.BaseSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overtime: %.2f", data.OvertimePay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", data.Deductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Tax: %.2f", data.Tax))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net salary: %.2f", data.NetSalary))
	if data.PaymentDate != nil {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Paid on %s", data.PaymentDate.Format("2006-01-02")))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
