package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Monthly Salary Report
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// Yearly Salary Report
	GetYearlyReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyReport handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.MonthlyReportRequest{
		Month:        month,
		Year:         year,
		DepartmentID: queryString(r, "department_id"),
	}

	result, err := h.reportService.GenerateMonthlyReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetYearlyReport handles GET /reports/yearly
func (h *reportHandlerImpl) GetYearlyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.YearlyReportRequest{
		Year:       year,
		EmployeeID: queryString(r, "employee_id"),
	}

	result, err := h.reportService.GenerateYearlyReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
