package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	GetMonthlyRows(ctx context.Context, month, year int, departmentID *string) ([]MonthlyReportRow, error)
	GetYearlyMonthTotals(ctx context.Context, year int, employeeID *string) ([]MonthTotal, error)
	GetYearlyEmployeeTotals(ctx context.Context, year int, employeeID *string) ([]EmployeeYearTotal, error)
}
