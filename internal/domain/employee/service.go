package employee

import (
	"context"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee creates an employee together with the first salary structure
	CreateEmployee(ctx context.Context, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error)

	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// UpdateEmployee updates the profile and, when supplied, appends a new structure version
	UpdateEmployee(ctx context.Context, actorID string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	UpdateStatus(ctx context.Context, actorID string, req UpdateStatusRequest) (EmployeeResponse, error)

	// DeleteEmployee hard deletes the employee with its structures and ledger rows
	DeleteEmployee(ctx context.Context, actorID string, id string) error

	// GenerateCode suggests the next employee code for a department
	GenerateCode(ctx context.Context, departmentID *string) (string, error)

	GetStructureHistory(ctx context.Context, employeeID string) ([]salary.StructureResponse, error)
}
