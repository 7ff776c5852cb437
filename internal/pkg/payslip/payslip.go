// Package payslip renders salary ledger rows as PDF payslips.
package payslip

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Renderer struct {
	companyName string
	currency    string
}

func NewRenderer(companyName, currency string) *Renderer {
	return &Renderer{companyName: companyName, currency: currency}
}

// Filename returns the download name for a payslip, e.g. payslip_ENG0001_2025_03.pdf.
func Filename(employeeCode string, month, year int) string {
	return fmt.Sprintf("payslip_%s_%04d_%02d.pdf", employeeCode, year, month)
}

type line struct {
	label  string
	amount decimal.Decimal
}

// Render produces an A4 payslip for t.
func (r *Renderer) Render(t salary.Transaction) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", t.EmployeeCode, Period(t.Month, t.Year)), false)
	pdf.SetAuthor(r.companyName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Payslip for "+Period(t.Month, t.Year), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	r.field(pdf, "Employee Code", t.EmployeeCode)
	r.field(pdf, "Employee Name", t.EmployeeName)
	r.field(pdf, "Department", t.DepartmentName)
	r.field(pdf, "Designation", t.Designation)
	if t.BankName != nil {
		r.field(pdf, "Bank", *t.BankName)
	}
	if t.BankAccountNumber != nil {
		r.field(pdf, "Account Number", *t.BankAccountNumber)
	}
	pdf.Ln(4)

	earnings := []line{
		{"Basic Salary", t.BasicSalary},
		{"House Rent Allowance", t.HRA},
		{"Dearness Allowance", t.DA},
		{"Travel Allowance", t.TA},
		{"Medical Allowance", t.MedicalAllowance},
		{"Special Allowance", t.SpecialAllowance},
		{"Bonus", t.Bonus},
		{"Other Allowances", t.OtherAllowances},
	}
	deductions := []line{
		{"Provident Fund", t.ProvidentFund},
		{"Professional Tax", t.ProfessionalTax},
		{"Income Tax", t.IncomeTax},
		{"Other Deductions", t.OtherDeductions},
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 8, "Earnings", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(60, 8, "Deductions", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i := range earnings {
		pdf.CellFormat(60, 7, earnings[i].label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, r.Money(earnings[i].amount), "1", 0, "R", false, 0, "")
		if i < len(deductions) {
			pdf.CellFormat(60, 7, deductions[i].label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 7, r.Money(deductions[i].amount), "1", 1, "R", false, 0, "")
		} else {
			pdf.CellFormat(60, 7, "", "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 7, "", "1", 1, "R", false, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Total Earnings", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, r.Money(t.TotalEarnings), "1", 0, "R", true, 0, "")
	pdf.CellFormat(60, 8, "Total Deductions", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, r.Money(t.TotalDeductions), "1", 1, "R", true, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 10, "Net Salary: "+r.Money(t.NetSalary), "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	r.field(pdf, "Status", Label(string(t.Status)))
	if t.PaymentDate != nil {
		r.field(pdf, "Payment Date", t.PaymentDate.Format("02 Jan 2006"))
	}
	if t.PaymentMethod != nil {
		r.field(pdf, "Payment Method", Label(string(*t.PaymentMethod)))
	}
	if t.TransactionRef != nil {
		r.field(pdf, "Reference", *t.TransactionRef)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, "This is a computer generated payslip and does not require a signature.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) field(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(45, 6, label+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

// Money formats an amount with the configured currency symbol.
func (r *Renderer) Money(d decimal.Decimal) string {
	return r.currency + " " + d.StringFixed(2)
}

// Period formats a pay period as "March 2025".
func Period(month, year int) string {
	return time.Month(month).String() + " " + fmt.Sprint(year)
}

func (r *Renderer) CompanyName() string {
	return r.companyName
}

// Label turns a stored code such as "bank_transfer" into "Bank Transfer".
// Codes of three letters or fewer are acronyms ("upi" -> "UPI").
func Label(code string) string {
	if len(code) <= 3 {
		return strings.ToUpper(code)
	}
	return cases.Title(language.English).String(strings.ReplaceAll(code, "_", " "))
}
