package department

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
)

type DepartmentServiceImpl struct {
	transactor     database.Transactor
	departmentRepo department.DepartmentRepository
	auditRepo      audit.Repository
}

func NewDepartmentService(transactor database.Transactor, departmentRepo department.DepartmentRepository, auditRepo audit.Repository) department.DepartmentService {
	return &DepartmentServiceImpl{
		transactor:     transactor,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
	}
}

func (s *DepartmentServiceImpl) CreateDepartment(ctx context.Context, actorID string, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if actorID == "" {
		return department.DepartmentResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	var resp department.DepartmentResponse
	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		created, err := s.departmentRepo.Create(txCtx, department.Department{
			Name:        req.Name,
			Description: req.Description,
			Status:      department.StatusActive,
		})
		if err != nil {
			return err
		}
		resp = department.NewDepartmentResponse(created)
		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionCreate, audit.TableDepartments, &created.ID, nil, resp)
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	slog.InfoContext(ctx, "department created", "department_id", resp.ID, "name", resp.Name, "actor_id", actorID)
	return resp, nil
}

func (s *DepartmentServiceImpl) GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error) {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

func (s *DepartmentServiceImpl) ListDepartments(ctx context.Context, filter department.DepartmentFilter) ([]department.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, department.NewDepartmentResponse(d))
	}
	return resp, nil
}
