package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrActorRequired):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Salary
	case errors.Is(err, salary.ErrTransactionNotFound):
		NotFound(w, "Salary transaction not found")
	case errors.Is(err, salary.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, salary.ErrTransactionExists):
		Conflict(w, "Salary already generated for this period")
	case errors.Is(err, salary.ErrInvalidStatusTransition):
		Conflict(w, err.Error())
	case errors.Is(err, salary.ErrPaymentExists):
		Conflict(w, "Payment already recorded")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeAlreadyActive):
		Conflict(w, "Employee is already active")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")

	// Department
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
