package department

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTransactor struct{}

func (passthroughTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memDepartmentRepo struct {
	departments []department.Department
}

func (r *memDepartmentRepo) Create(_ context.Context, d department.Department) (department.Department, error) {
	for _, existing := range r.departments {
		if existing.Name == d.Name {
			return department.Department{}, department.ErrDepartmentNameExists
		}
	}
	d.ID = "dept-" + d.Name
	r.departments = append(r.departments, d)
	return d, nil
}

func (r *memDepartmentRepo) GetByID(_ context.Context, id string) (department.Department, error) {
	for _, d := range r.departments {
		if d.ID == id {
			return d, nil
		}
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (r *memDepartmentRepo) List(_ context.Context, filter department.DepartmentFilter) ([]department.Department, error) {
	var out []department.Department
	for _, d := range r.departments {
		if filter.ActiveOnly && d.Status != department.StatusActive {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

type memAuditRepo struct {
	entries []audit.Entry
	err     error
}

func (r *memAuditRepo) Record(_ context.Context, e audit.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func TestDepartmentService_CreateDepartment(t *testing.T) {
	repo := &memDepartmentRepo{}
	audits := &memAuditRepo{}
	svc := NewDepartmentService(passthroughTransactor{}, repo, audits)

	resp, err := svc.CreateDepartment(context.Background(), "user-admin", department.CreateDepartmentRequest{Name: "  Engineering "})

	require.NoError(t, err)
	assert.Equal(t, "Engineering", resp.Name)
	assert.Equal(t, department.StatusActive, resp.Status)
	require.Len(t, audits.entries, 1)
	assert.Equal(t, audit.TableDepartments, audits.entries[0].TableName)
	assert.Equal(t, "user-admin", audits.entries[0].UserID)
}

func TestDepartmentService_CreateDepartment_DuplicateName(t *testing.T) {
	repo := &memDepartmentRepo{}
	svc := NewDepartmentService(passthroughTransactor{}, repo, &memAuditRepo{})
	_, err := svc.CreateDepartment(context.Background(), "user-admin", department.CreateDepartmentRequest{Name: "Finance"})
	require.NoError(t, err)

	_, err = svc.CreateDepartment(context.Background(), "user-admin", department.CreateDepartmentRequest{Name: "Finance"})

	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
}

func TestDepartmentService_CreateDepartment_RequiresActor(t *testing.T) {
	repo := &memDepartmentRepo{}
	audits := &memAuditRepo{}
	svc := NewDepartmentService(passthroughTransactor{}, repo, audits)

	_, err := svc.CreateDepartment(context.Background(), "", department.CreateDepartmentRequest{Name: "Finance"})

	assert.ErrorIs(t, err, user.ErrActorRequired)
	assert.Empty(t, audits.entries)
}

func TestDepartmentService_CreateDepartment_EmptyName(t *testing.T) {
	svc := NewDepartmentService(passthroughTransactor{}, &memDepartmentRepo{}, &memAuditRepo{})

	_, err := svc.CreateDepartment(context.Background(), "user-admin", department.CreateDepartmentRequest{Name: " "})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name", verrs[0].Field)
}

func TestDepartmentService_CreateDepartment_AuditFailure(t *testing.T) {
	svc := NewDepartmentService(passthroughTransactor{}, &memDepartmentRepo{}, &memAuditRepo{err: errors.New("boom")})

	_, err := svc.CreateDepartment(context.Background(), "user-admin", department.CreateDepartmentRequest{Name: "Ops"})

	assert.Error(t, err)
}

func TestDepartmentService_GetAndList(t *testing.T) {
	repo := &memDepartmentRepo{departments: []department.Department{
		{ID: "d1", Name: "Engineering", Status: department.StatusActive, EmployeeCount: 4},
		{ID: "d2", Name: "Legacy", Status: department.StatusInactive},
	}}
	svc := NewDepartmentService(passthroughTransactor{}, repo, &memAuditRepo{})
	ctx := context.Background()

	got, err := svc.GetDepartment(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.EmployeeCount)

	_, err = svc.GetDepartment(ctx, "nope")
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)

	all, err := svc.ListDepartments(ctx, department.DepartmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListDepartments(ctx, department.DepartmentFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
