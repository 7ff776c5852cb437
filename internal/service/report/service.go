package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	sf         *singleflight.Group
	now        func() time.Time

	queryTimeout time.Duration
}

const defaultQueryTimeout = 30 * time.Second

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		sf:         &singleflight.Group{},
		now:        time.Now,

		queryTimeout: defaultQueryTimeout,
	}
}

// GenerateMonthlyReport lists every ledger row of the period with grand totals
// and a per-department breakdown.
func (s *ReportServiceImpl) GenerateMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}

	rows, err := s.monthlyRows(ctx, req)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	if rows == nil {
		rows = []report.MonthlyReportRow{}
	}

	periodStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	result := report.MonthlyReport{
		Month:       req.Month,
		Year:        req.Year,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		GeneratedAt: s.now().Format(time.RFC3339),
		Rows:        rows,
		Totals:      zeroTotals(),
		Departments: []report.DepartmentSummary{},
	}

	// Rows arrive ordered by department, so each department is one run.
	for _, row := range rows {
		result.Totals.Count++
		result.Totals.BasicSalary = result.Totals.BasicSalary.Add(row.BasicSalary)
		result.Totals.TotalEarnings = result.Totals.TotalEarnings.Add(row.TotalEarnings)
		result.Totals.TotalDeductions = result.Totals.TotalDeductions.Add(row.TotalDeductions)
		result.Totals.NetSalary = result.Totals.NetSalary.Add(row.NetSalary)

		n := len(result.Departments)
		if n == 0 || result.Departments[n-1].DepartmentName != row.DepartmentName {
			result.Departments = append(result.Departments, report.DepartmentSummary{
				DepartmentName: row.DepartmentName,
				TotalNet:       decimal.Zero,
			})
			n++
		}
		result.Departments[n-1].EmployeeCount++
		result.Departments[n-1].TotalNet = result.Departments[n-1].TotalNet.Add(row.NetSalary)
	}

	return result, nil
}

// GenerateYearlyReport returns all twelve months, zero filled, plus per-employee totals.
func (s *ReportServiceImpl) GenerateYearlyReport(ctx context.Context, req report.YearlyReportRequest) (report.YearlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.YearlyReport{}, err
	}

	var (
		monthTotals    []report.MonthTotal
		employeeTotals []report.EmployeeYearTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthTotals, err = s.reportRepo.GetYearlyMonthTotals(gctx, req.Year, req.EmployeeID)
		return err
	})
	g.Go(func() error {
		var err error
		employeeTotals, err = s.reportRepo.GetYearlyEmployeeTotals(gctx, req.Year, req.EmployeeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.YearlyReport{}, err
	}

	months := make([]report.MonthTotal, 12)
	for i := range months {
		months[i] = report.MonthTotal{
			Month:           i + 1,
			TotalEarnings:   decimal.Zero,
			TotalDeductions: decimal.Zero,
			NetSalary:       decimal.Zero,
		}
	}
	totals := zeroTotals()
	for _, m := range monthTotals {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		months[m.Month-1] = m
		totals.Count += m.Count
		totals.TotalEarnings = totals.TotalEarnings.Add(m.TotalEarnings)
		totals.TotalDeductions = totals.TotalDeductions.Add(m.TotalDeductions)
		totals.NetSalary = totals.NetSalary.Add(m.NetSalary)
	}
	if employeeTotals == nil {
		employeeTotals = []report.EmployeeYearTotal{}
	}

	return report.YearlyReport{
		Year:        req.Year,
		GeneratedAt: s.now().Format(time.RFC3339),
		Months:      months,
		Employees:   employeeTotals,
		Totals:      totals,
	}, nil
}

// monthlyRows shares one query between identical concurrent requests. The
// query runs detached from any single caller so one disconnect cannot fail
// the others; each caller still stops waiting when its own ctx ends.
func (s *ReportServiceImpl) monthlyRows(ctx context.Context, req report.MonthlyReportRequest) ([]report.MonthlyReportRow, error) {
	key := fmt.Sprintf("monthly:%d:%d:%s", req.Month, req.Year, deref(req.DepartmentID))
	ch := s.sf.DoChan(key, func() (any, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.queryTimeout)
		defer cancel()
		return s.reportRepo.GetMonthlyRows(qctx, req.Month, req.Year, req.DepartmentID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rows, _ := res.Val.([]report.MonthlyReportRow)
		return rows, nil
	}
}

func zeroTotals() report.Totals {
	return report.Totals{
		BasicSalary:     decimal.Zero,
		TotalEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		NetSalary:       decimal.Zero,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
