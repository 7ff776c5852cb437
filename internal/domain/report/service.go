package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	GenerateMonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)
	GenerateYearlyReport(ctx context.Context, req YearlyReportRequest) (YearlyReport, error)
}
