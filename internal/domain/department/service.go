package department

import "context"

type DepartmentService interface {
	CreateDepartment(ctx context.Context, actorID string, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetDepartment(ctx context.Context, id string) (DepartmentResponse, error)
	ListDepartments(ctx context.Context, filter DepartmentFilter) ([]DepartmentResponse, error)
}
