package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	ListTransactions(w http.ResponseWriter, r *http.Request)
	GetTransaction(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
	SendPayslip(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

func (h *salaryHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req salary.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.salaryService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req salary.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.salaryService.Generate(r.Context(), actor.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salaries generated", result)
}

func (h *salaryHandlerImpl) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	filter := salary.TransactionFilter{
		Month:        queryInt(r, "month", &errs),
		Year:         queryInt(r, "year", &errs),
		Status:       queryString(r, "status"),
		DepartmentID: queryString(r, "department_id"),
		EmployeeID:   queryString(r, "employee_id"),
		Page:         intOrZero(queryInt(r, "page", &errs)),
		Limit:        intOrZero(queryInt(r, "limit", &errs)),
		SortBy:       r.URL.Query().Get("sort_by"),
		SortOrder:    r.URL.Query().Get("sort_order"),
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.salaryService.ListTransactions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *salaryHandlerImpl) GetTransaction(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.Stats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.Approve(r.Context(), actor.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary approved", result)
}

func (h *salaryHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req salary.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TransactionID = chi.URLParam(r, "id")

	result, err := h.salaryService.MarkPaid(r.Context(), actor.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary marked as paid", result)
}

func (h *salaryHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	filename, pdf, err := h.salaryService.RenderPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, "application/pdf", filename, pdf)
}

func (h *salaryHandlerImpl) SendPayslip(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.salaryService.SendPayslip(r.Context(), actor.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip sent", nil)
}
