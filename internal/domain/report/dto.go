package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// MONTHLY SALARY REPORT
// ========================================

type MonthlyReportRequest struct {
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	DepartmentID *string `json:"department_id,omitempty"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if err := validateYear(r.Year); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReport struct {
	Month       int                 `json:"month"`
	Year        int                 `json:"year"`
	PeriodStart string              `json:"period_start"`
	PeriodEnd   string              `json:"period_end"`
	GeneratedAt string              `json:"generated_at"`
	Rows        []MonthlyReportRow  `json:"rows"`
	Totals      Totals              `json:"totals"`
	Departments []DepartmentSummary `json:"departments"`
}

type MonthlyReportRow struct {
	TransactionID   string          `json:"transaction_id"`
	EmployeeCode    string          `json:"employee_code"`
	EmployeeName    string          `json:"employee_name"`
	DepartmentName  string          `json:"department_name"`
	Designation     string          `json:"designation"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	Status          string          `json:"status"`
}

type Totals struct {
	Count           int             `json:"count"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

type DepartmentSummary struct {
	DepartmentName string          `json:"department_name"`
	EmployeeCount  int             `json:"employee_count"`
	TotalNet       decimal.Decimal `json:"total_net"`
}

// ========================================
// YEARLY SALARY REPORT
// ========================================

type YearlyReportRequest struct {
	Year       int     `json:"year"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *YearlyReportRequest) Validate() error {
	if err := validateYear(r.Year); err != nil {
		return validator.ValidationErrors{*err}
	}
	return nil
}

type YearlyReport struct {
	Year        int                 `json:"year"`
	GeneratedAt string              `json:"generated_at"`
	Months      []MonthTotal        `json:"months"`
	Employees   []EmployeeYearTotal `json:"employees"`
	Totals      Totals              `json:"totals"`
}

type MonthTotal struct {
	Month           int             `json:"month"`
	Count           int             `json:"count"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

type EmployeeYearTotal struct {
	EmployeeID      string          `json:"employee_id"`
	EmployeeCode    string          `json:"employee_code"`
	EmployeeName    string          `json:"employee_name"`
	DepartmentName  string          `json:"department_name"`
	Months          int             `json:"months"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

func validateYear(year int) *validator.ValidationError {
	maxYear := time.Now().Year() + 1
	if !validator.IsValidYear(year) || year > maxYear {
		return &validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", maxYear),
		}
	}
	return nil
}
