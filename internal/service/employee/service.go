package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	transactor     database.Transactor
	employeeRepo   employee.EmployeeRepository
	structureRepo  salary.StructureRepository
	departmentRepo department.DepartmentRepository
	auditRepo      audit.Repository
	now            func() time.Time
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	structureRepo salary.StructureRepository,
	departmentRepo department.DepartmentRepository,
	auditRepo audit.Repository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:     transactor,
		employeeRepo:   employeeRepo,
		structureRepo:  structureRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
		now:            time.Now,
	}
}

func (s *EmployeeServiceImpl) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// currentStructure returns nil when the employee has no structure yet.
func (s *EmployeeServiceImpl) currentStructure(ctx context.Context, employeeID string) (*salary.Structure, error) {
	st, err := s.structureRepo.GetCurrent(ctx, employeeID)
	if err != nil {
		if errors.Is(err, salary.ErrStructureNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (s *EmployeeServiceImpl) load(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	current, err := s.currentStructure(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp, current), nil
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, actorID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if actorID == "" {
		return employee.EmployeeResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var resp employee.EmployeeResponse
	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		created, err := s.employeeRepo.Create(txCtx, req.ToEmployee())
		if err != nil {
			return err
		}

		if _, err := s.structureRepo.Create(txCtx, req.Salary.ToStructure(created.ID, s.today())); err != nil {
			return fmt.Errorf("failed to create salary structure: %w", err)
		}

		resp, err = s.load(txCtx, created.ID)
		if err != nil {
			return err
		}

		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionCreate, audit.TableEmployees, &created.ID, nil, resp)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "employee created", "employee_id", resp.ID, "employee_code", resp.EmployeeCode, "actor_id", actorID)
	return resp, nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return s.load(ctx, id)
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	data := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		data = append(data, employee.NewEmployeeResponse(e, nil))
	}

	return employee.ListEmployeeResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateEmployee never edits an existing structure. A salary change appends a
// new version effective today so already generated ledger rows stay as they were.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, actorID string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if actorID == "" {
		return employee.EmployeeResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var resp employee.EmployeeResponse
	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		before, err := s.load(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.HasProfileChanges() {
			if err := s.employeeRepo.Update(txCtx, req); err != nil {
				return err
			}
		}

		if req.Salary != nil {
			structure, err := s.structureRepo.Create(txCtx, req.Salary.ToStructure(req.ID, s.today()))
			if err != nil {
				return fmt.Errorf("failed to create salary structure: %w", err)
			}
			if err := audit.Record(txCtx, s.auditRepo, actorID, audit.ActionCreate, audit.TableSalaryStructures, &structure.ID,
				before.CurrentSalary, salary.NewStructureResponse(structure)); err != nil {
				return err
			}
		}

		resp, err = s.load(txCtx, req.ID)
		if err != nil {
			return err
		}

		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionUpdate, audit.TableEmployees, &req.ID, before, resp)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "employee updated", "employee_id", req.ID, "salary_changed", req.Salary != nil, "actor_id", actorID)
	return resp, nil
}

func (s *EmployeeServiceImpl) UpdateStatus(ctx context.Context, actorID string, req employee.UpdateStatusRequest) (employee.EmployeeResponse, error) {
	if actorID == "" {
		return employee.EmployeeResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	next := employee.Status(req.Status)

	var resp employee.EmployeeResponse
	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if current.Status == next {
			if next == employee.StatusActive {
				return employee.ErrEmployeeAlreadyActive
			}
			return employee.ErrEmployeeAlreadyInactive
		}

		if err := s.employeeRepo.UpdateStatus(txCtx, req.ID, next); err != nil {
			return err
		}

		resp, err = s.load(txCtx, req.ID)
		if err != nil {
			return err
		}

		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionUpdateStatus, audit.TableEmployees, &req.ID,
			map[string]any{"status": current.Status},
			map[string]any{"status": next},
		)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "employee status changed", "employee_id", req.ID, "status", next, "actor_id", actorID)
	return resp, nil
}

func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, actorID string, id string) error {
	if actorID == "" {
		return user.ErrActorRequired
	}

	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		before, err := s.load(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.employeeRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return audit.Record(txCtx, s.auditRepo, actorID, audit.ActionDelete, audit.TableEmployees, &id, before, nil)
	})
	if err != nil {
		return err
	}

	slog.WarnContext(ctx, "employee deleted", "employee_id", id, "actor_id", actorID)
	return nil
}

// GenerateCode suggests PREFIX + 4 digit sequence, where PREFIX is the first
// three letters of the department name or EMP without a department.
func (s *EmployeeServiceImpl) GenerateCode(ctx context.Context, departmentID *string) (string, error) {
	prefix := employee.DefaultCodePrefix
	if departmentID != nil && !validator.IsEmpty(*departmentID) {
		dept, err := s.departmentRepo.GetByID(ctx, *departmentID)
		if err != nil {
			return "", err
		}
		if p := codePrefix(dept.Name); p != "" {
			prefix = p
		}
	}

	count, err := s.employeeRepo.CountByCodePrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func codePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() < 2 {
		return ""
	}
	return b.String()
}

func (s *EmployeeServiceImpl) GetStructureHistory(ctx context.Context, employeeID string) ([]salary.StructureResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	history, err := s.structureRepo.ListHistory(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]salary.StructureResponse, 0, len(history))
	for _, st := range history {
		resp = append(resp, salary.NewStructureResponse(st))
	}
	return resp, nil
}
