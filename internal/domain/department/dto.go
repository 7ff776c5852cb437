package department

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must be at most 100 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DepartmentFilter struct {
	ActiveOnly bool
}

type DepartmentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Status        Status  `json:"status"`
	EmployeeCount int     `json:"employee_count"`
	CreatedAt     string  `json:"created_at"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Status:        d.Status,
		EmployeeCount: d.EmployeeCount,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	}
}
