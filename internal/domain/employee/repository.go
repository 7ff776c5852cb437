package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	// CountByCodePrefix counts employee codes starting with prefix.
	CountByCodePrefix(ctx context.Context, prefix string) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}
