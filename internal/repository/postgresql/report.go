package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetMonthlyRows(ctx context.Context, month, year int, departmentID *string) ([]report.MonthlyReportRow, error) {
	if !validIDs(departmentID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT st.id, e.employee_code, e.name, d.name, e.designation,
			   st.basic_salary, st.total_earnings, st.total_deductions, st.net_salary, st.status
		FROM salary_transactions st
		JOIN employees e ON e.id = st.employee_id
		JOIN departments d ON d.id = e.department_id
		WHERE st.month = $1 AND st.year = $2
	`
	args := []any{month, year}
	if departmentID != nil {
		query += " AND e.department_id = $3"
		args = append(args, *departmentID)
	}
	query += " ORDER BY d.name, e.employee_code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly salary report: %w", err)
	}
	defer rows.Close()

	var result []report.MonthlyReportRow
	for rows.Next() {
		var row report.MonthlyReportRow
		if err := rows.Scan(
			&row.TransactionID, &row.EmployeeCode, &row.EmployeeName, &row.DepartmentName, &row.Designation,
			&row.BasicSalary, &row.TotalEarnings, &row.TotalDeductions, &row.NetSalary, &row.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly salary row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) GetYearlyMonthTotals(ctx context.Context, year int, employeeID *string) ([]report.MonthTotal, error) {
	if !validIDs(employeeID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT st.month, COUNT(*),
			   COALESCE(SUM(st.total_earnings), 0),
			   COALESCE(SUM(st.total_deductions), 0),
			   COALESCE(SUM(st.net_salary), 0)
		FROM salary_transactions st
		WHERE st.year = $1
	`
	args := []any{year}
	if employeeID != nil {
		query += " AND st.employee_id = $2"
		args = append(args, *employeeID)
	}
	query += " GROUP BY st.month ORDER BY st.month"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query yearly month totals: %w", err)
	}
	defer rows.Close()

	var result []report.MonthTotal
	for rows.Next() {
		var m report.MonthTotal
		if err := rows.Scan(&m.Month, &m.Count, &m.TotalEarnings, &m.TotalDeductions, &m.NetSalary); err != nil {
			return nil, fmt.Errorf("failed to scan month total: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *reportRepository) GetYearlyEmployeeTotals(ctx context.Context, year int, employeeID *string) ([]report.EmployeeYearTotal, error) {
	if !validIDs(employeeID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.employee_code, e.name, d.name, COUNT(*),
			   COALESCE(SUM(st.total_earnings), 0),
			   COALESCE(SUM(st.total_deductions), 0),
			   COALESCE(SUM(st.net_salary), 0)
		FROM salary_transactions st
		JOIN employees e ON e.id = st.employee_id
		JOIN departments d ON d.id = e.department_id
		WHERE st.year = $1
	`
	args := []any{year}
	if employeeID != nil {
		query += " AND st.employee_id = $2"
		args = append(args, *employeeID)
	}
	query += " GROUP BY e.id, e.employee_code, e.name, d.name ORDER BY e.employee_code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query yearly employee totals: %w", err)
	}
	defer rows.Close()

	var result []report.EmployeeYearTotal
	for rows.Next() {
		var e report.EmployeeYearTotal
		if err := rows.Scan(
			&e.EmployeeID, &e.EmployeeCode, &e.EmployeeName, &e.DepartmentName, &e.Months,
			&e.TotalEarnings, &e.TotalDeductions, &e.NetSalary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee year total: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
