package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type DepartmentHandler interface {
	ListDepartments(w http.ResponseWriter, r *http.Request)
	GetDepartment(w http.ResponseWriter, r *http.Request)
	CreateDepartment(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{departmentService: departmentService}
}

func (h *departmentHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	filter := department.DepartmentFilter{ActiveOnly: r.URL.Query().Get("active") == "true"}

	result, err := h.departmentService.ListDepartments(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *departmentHandlerImpl) GetDepartment(w http.ResponseWriter, r *http.Request) {
	result, err := h.departmentService.GetDepartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *departmentHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req department.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.departmentService.CreateDepartment(r.Context(), actor.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created", result)
}
